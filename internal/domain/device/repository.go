package device

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the interface for device repository operations
type Repository interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, deviceID uuid.UUID) (*Device, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Device, error)
	// GetByIPAddress returns the most recently seen device registered with ip.
	GetByIPAddress(ctx context.Context, ip string) (*Device, error)
	Update(ctx context.Context, device *Device) error
	SetAuthTokenHash(ctx context.Context, deviceID uuid.UUID, hash *string) error
	Deactivate(ctx context.Context, deviceID uuid.UUID) error
	Touch(ctx context.Context, deviceID uuid.UUID, seen Seen) error
	List(ctx context.Context, filter *Filter) ([]*Device, int64, error)
}

// Filter represents filtering options for listing devices
type Filter struct {
	FacilityID   *uuid.UUID
	DepartmentID *uuid.UUID
	IsActive     *bool
	Search       string
	Page         int
	PageSize     int
}

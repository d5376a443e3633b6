package mapping

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

type Repository interface {
	ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]Mapping, error)
	GetByID(ctx context.Context, mappingID uuid.UUID) (*Mapping, error)
	Create(ctx context.Context, mapping *Mapping) error
	Update(ctx context.Context, mapping *Mapping) error
	Delete(ctx context.Context, mappingID uuid.UUID) error
}

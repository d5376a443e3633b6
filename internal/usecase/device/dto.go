package device

import (
	"time"

	domainDevice "lab-quality-monitor/internal/domain/device"

	"github.com/google/uuid"
)

type CreateDeviceRequest struct {
	Identifier   string     `json:"identifier" validate:"required,min=1,max=128,printascii"`
	IPAddress    *string    `json:"ip_address" validate:"omitempty,ip"`
	FacilityID   *uuid.UUID `json:"facility_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Name         *string    `json:"name" validate:"omitempty,min=1,max=255"`
	IsActive     *bool      `json:"is_active"`
}

type UpdateDeviceRequest struct {
	Identifier   *string    `json:"identifier" validate:"omitempty,min=1,max=128,printascii"`
	IPAddress    *string    `json:"ip_address" validate:"omitempty,ip"`
	FacilityID   *uuid.UUID `json:"facility_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	// ClearDepartment moves the device to facility level.
	ClearDepartment bool    `json:"clear_department"`
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsActive        *bool   `json:"is_active"`
}

type DeviceFilterRequest struct {
	FacilityID   string `form:"facility_id" json:"facility_id" validate:"omitempty,uuid"`
	DepartmentID string `form:"department_id" json:"department_id" validate:"omitempty,uuid"`
	IsActive     *bool  `form:"is_active" json:"is_active"`
	Search       string `form:"search" json:"search" validate:"omitempty,max=128"`
	Page         int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

type DeviceResponse struct {
	ID             uuid.UUID  `json:"id"`
	Identifier     string     `json:"identifier"`
	IPAddress      *string    `json:"ip_address"`
	FacilityID     *uuid.UUID `json:"facility_id"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	Name           *string    `json:"name"`
	BatteryVoltage *float64   `json:"battery_voltage"`
	IsActive       bool       `json:"is_active"`
	HasToken       bool       `json:"has_token"`
	LastSeenAt     *time.Time `json:"last_seen_at"`
	IsOnline       bool       `json:"is_online"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type DeviceListResponse struct {
	Devices    []DeviceResponse `json:"devices"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// DeviceTokenResponse carries a freshly rotated device secret. The plaintext
// is never stored and cannot be retrieved again.
type DeviceTokenResponse struct {
	DeviceID uuid.UUID `json:"device_id"`
	Token    string    `json:"token"`
}

func ToDeviceResponse(d *domainDevice.Device) *DeviceResponse {
	if d == nil {
		return nil
	}
	return &DeviceResponse{
		ID:             d.ID,
		Identifier:     d.Identifier,
		IPAddress:      d.IPAddress,
		FacilityID:     d.FacilityID,
		DepartmentID:   d.DepartmentID,
		Name:           d.Name,
		BatteryVoltage: d.BatteryVoltage,
		IsActive:       d.IsActive,
		HasToken:       d.HasAuthToken(),
		LastSeenAt:     d.LastSeenAt,
		IsOnline:       d.IsOnline(),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDomainFilter converts a validated filter request.
func ToDomainFilter(req *DeviceFilterRequest) *domainDevice.Filter {
	if req == nil {
		return &domainDevice.Filter{}
	}
	filter := &domainDevice.Filter{
		IsActive: req.IsActive,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if id, err := uuid.Parse(req.FacilityID); err == nil {
		filter.FacilityID = &id
	}
	if id, err := uuid.Parse(req.DepartmentID); err == nil {
		filter.DepartmentID = &id
	}
	return filter
}

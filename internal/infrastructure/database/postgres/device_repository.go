package postgres

import (
	"context"
	"fmt"
	"time"

	domainDevice "lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceRepository implements domain.Device.Repository interface
type DeviceRepository struct {
	db *DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domainDevice.Device) error {
	now := time.Now()
	d.ID = uuid.New()
	d.CreatedAt = now
	d.UpdatedAt = now

	dbModel := toDeviceModel(d)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if IsDuplicateError(err) {
			return domainDevice.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domainDevice.Device, error) {
	return first(r.db.DB.WithContext(ctx).Where("id = ?", deviceID))
}

func (r *DeviceRepository) GetByIdentifier(ctx context.Context, identifier string) (*domainDevice.Device, error) {
	return first(r.db.DB.WithContext(ctx).Where("device_identifier = ?", identifier))
}

func (r *DeviceRepository) GetByIPAddress(ctx context.Context, ip string) (*domainDevice.Device, error) {
	return first(r.db.DB.WithContext(ctx).
		Where("ip_address = ?", ip).
		Order("last_seen_at DESC NULLS LAST"))
}

func first(query *gorm.DB) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := query.First(&dbModel).Error

	if isNotFound(err) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domainDevice.Device) error {
	d.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"device_identifier": d.Identifier,
			"ip_address":        d.IPAddress,
			"facility_id":       d.FacilityID,
			"department_id":     d.DepartmentID,
			"name":              d.Name,
			"is_active":         d.IsActive,
			"updated_at":        d.UpdatedAt,
		})

	if result.Error != nil {
		if IsDuplicateError(result.Error) {
			return domainDevice.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) SetAuthTokenHash(ctx context.Context, deviceID uuid.UUID, hash *string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", deviceID).
		Updates(map[string]interface{}{
			"auth_token_hash": hash,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set device token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

// Deactivate soft-deletes the device; its mappings and history stay in place.
func (r *DeviceRepository) Deactivate(ctx context.Context, deviceID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", deviceID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to deactivate device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Touch(ctx context.Context, deviceID uuid.UUID, seen domainDevice.Seen) error {
	updates := map[string]interface{}{
		"last_seen_at": seen.At,
		"updated_at":   time.Now(),
	}
	if seen.IPAddress != "" {
		updates["ip_address"] = seen.IPAddress
	}
	if seen.BatteryVoltage != nil {
		updates["battery_voltage"] = *seen.BatteryVoltage
	}

	err := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", deviceID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	return nil
}

func (r *DeviceRepository) List(ctx context.Context, filter *domainDevice.Filter) ([]*domainDevice.Device, int64, error) {
	var dbModels []models.DeviceModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.DeviceModel{})

	if filter.FacilityID != nil {
		db = db.Where("facility_id = ?", *filter.FacilityID)
	}
	if filter.DepartmentID != nil {
		db = db.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("device_identifier ILIKE ? OR name ILIKE ?", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count devices: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]*domainDevice.Device, len(dbModels))
	for i := range dbModels {
		devices[i] = toDeviceEntity(&dbModels[i])
	}

	return devices, total, nil
}

func toDeviceModel(d *domainDevice.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:             d.ID,
		Identifier:     d.Identifier,
		IPAddress:      d.IPAddress,
		FacilityID:     d.FacilityID,
		DepartmentID:   d.DepartmentID,
		Name:           d.Name,
		AuthTokenHash:  d.AuthTokenHash,
		BatteryVoltage: d.BatteryVoltage,
		IsActive:       d.IsActive,
		LastSeenAt:     d.LastSeenAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDeviceEntity(m *models.DeviceModel) *domainDevice.Device {
	return &domainDevice.Device{
		ID:             m.ID,
		Identifier:     m.Identifier,
		IPAddress:      m.IPAddress,
		FacilityID:     m.FacilityID,
		DepartmentID:   m.DepartmentID,
		Name:           m.Name,
		AuthTokenHash:  m.AuthTokenHash,
		BatteryVoltage: m.BatteryVoltage,
		IsActive:       m.IsActive,
		LastSeenAt:     m.LastSeenAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

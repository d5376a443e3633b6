package postgres

import (
	"context"
	"fmt"
	"time"

	domainMapping "lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
)

type MappingRepository struct {
	db *DB
}

func NewMappingRepository(db *DB) domainMapping.Repository {
	return &MappingRepository{db: db}
}

// ListByDevice returns the device's mappings ordered by channel so callers
// see a stable sequence.
func (r *MappingRepository) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]domainMapping.Mapping, error) {
	var dbModels []models.MappingModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("channel ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}

	mappings := make([]domainMapping.Mapping, len(dbModels))
	for i := range dbModels {
		mappings[i] = toMappingEntity(&dbModels[i])
	}
	return mappings, nil
}

func (r *MappingRepository) GetByID(ctx context.Context, mappingID uuid.UUID) (*domainMapping.Mapping, error) {
	var dbModel models.MappingModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", mappingID).First(&dbModel).Error

	if isNotFound(err) {
		return nil, domainMapping.ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	m := toMappingEntity(&dbModel)
	return &m, nil
}

func (r *MappingRepository) Create(ctx context.Context, m *domainMapping.Mapping) error {
	now := time.Now()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toMappingModel(m)).Error; err != nil {
		if IsDuplicateError(err) {
			return domainMapping.ErrMappingAlreadyExists
		}
		return fmt.Errorf("failed to create mapping: %w", err)
	}
	return nil
}

func (r *MappingRepository) Update(ctx context.Context, m *domainMapping.Mapping) error {
	m.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.MappingModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"channel":      string(m.Channel),
			"item_id":      m.ItemID,
			"offset_value": m.Offset,
			"updated_at":   m.UpdatedAt,
		})

	if result.Error != nil {
		if IsDuplicateError(result.Error) {
			return domainMapping.ErrMappingAlreadyExists
		}
		return fmt.Errorf("failed to update mapping: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainMapping.ErrMappingNotFound
	}
	return nil
}

func (r *MappingRepository) Delete(ctx context.Context, mappingID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", mappingID).
		Delete(&models.MappingModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete mapping: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainMapping.ErrMappingNotFound
	}
	return nil
}

func toMappingModel(m *domainMapping.Mapping) *models.MappingModel {
	return &models.MappingModel{
		ID:        m.ID,
		DeviceID:  m.DeviceID,
		Channel:   string(m.Channel),
		ItemID:    m.ItemID,
		Offset:    m.Offset,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMappingEntity(m *models.MappingModel) domainMapping.Mapping {
	return domainMapping.Mapping{
		ID:        m.ID,
		DeviceID:  m.DeviceID,
		Channel:   domainMapping.Channel(m.Channel),
		ItemID:    m.ItemID,
		Offset:    m.Offset,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

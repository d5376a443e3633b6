package postgres

import (
	"context"
	"fmt"
	"time"

	"lab-quality-monitor/internal/domain/temperature"
	"lab-quality-monitor/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
)

const recordDateLayout = "2006-01-02"

const insertDailyRecordSQL = `
INSERT INTO temperature_records (id, facility_id, department_id, record_date, created_at, updated_at)
VALUES (?, ?, ?, ?::date, ?, ?)
ON CONFLICT DO NOTHING
RETURNING id`

const upsertDetailSQL = `
INSERT INTO temperature_record_details
    (id, record_id, item_id, value, provenance, device_id, recorded_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (record_id, item_id) DO UPDATE SET
    value = EXCLUDED.value,
    provenance = EXCLUDED.provenance,
    device_id = EXCLUDED.device_id,
    recorded_at = EXCLUDED.recorded_at,
    updated_at = EXCLUDED.updated_at
RETURNING id`

type returnedID struct {
	ID uuid.UUID
}

// RecordRepository implements temperature.RecordRepository. The write paths
// use native INSERT ... ON CONFLICT so that concurrent transmissions converge
// on a single row instead of failing.
type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) temperature.RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) FindDaily(ctx context.Context, key temperature.DailyKey) (*temperature.Record, error) {
	var dbModel models.RecordModel
	err := r.db.DB.WithContext(ctx).
		Where("facility_id = ? AND department_id IS NOT DISTINCT FROM ? AND record_date = ?::date",
			key.FacilityID, key.DepartmentID, key.Date.Format(recordDateLayout)).
		First(&dbModel).Error

	if isNotFound(err) {
		return nil, temperature.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find daily record: %w", err)
	}

	return toRecordEntity(&dbModel), nil
}

func (r *RecordRepository) CreateDaily(ctx context.Context, key temperature.DailyKey) (*temperature.Record, error) {
	now := time.Now()
	record := &temperature.Record{
		ID:           uuid.New(),
		FacilityID:   key.FacilityID,
		DepartmentID: key.DepartmentID,
		RecordDate:   key.Date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var inserted []returnedID
	result := r.db.DB.WithContext(ctx).
		Raw(insertDailyRecordSQL,
			record.ID, record.FacilityID, record.DepartmentID,
			key.Date.Format(recordDateLayout), now, now).
		Scan(&inserted)

	if result.Error != nil {
		if IsDuplicateError(result.Error) {
			return nil, temperature.ErrRecordAlreadyExists
		}
		return nil, fmt.Errorf("failed to create daily record: %w", result.Error)
	}
	if len(inserted) == 0 {
		return nil, temperature.ErrRecordAlreadyExists
	}

	record.ID = inserted[0].ID
	return record, nil
}

func (r *RecordRepository) UpsertDetail(ctx context.Context, detail *temperature.Detail) error {
	now := time.Now()
	if detail.RecordedAt.IsZero() {
		detail.RecordedAt = now
	}

	var ids []returnedID
	err := r.db.DB.WithContext(ctx).
		Raw(upsertDetailSQL,
			uuid.New(), detail.RecordID, detail.ItemID, detail.Value,
			string(detail.Provenance), detail.DeviceID, detail.RecordedAt, now, now).
		Scan(&ids).Error

	if err != nil {
		if IsForeignKeyError(err) {
			return temperature.ErrItemReference
		}
		return fmt.Errorf("failed to upsert detail: %w", err)
	}
	if len(ids) > 0 {
		detail.ID = ids[0].ID
	}

	return nil
}

func toRecordEntity(m *models.RecordModel) *temperature.Record {
	return &temperature.Record{
		ID:           m.ID,
		FacilityID:   m.FacilityID,
		DepartmentID: m.DepartmentID,
		RecordDate:   time.Date(m.RecordDate.Year(), m.RecordDate.Month(), m.RecordDate.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ItemRepository reads temperature items; item maintenance lives outside
// this service.
type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) temperature.ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) GetByID(ctx context.Context, itemID uuid.UUID) (*temperature.Item, error) {
	var m models.ItemModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", itemID).First(&m).Error

	if isNotFound(err) {
		return nil, temperature.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get temperature item: %w", err)
	}

	return &temperature.Item{
		ID:           m.ID,
		FacilityID:   m.FacilityID,
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Unit:         m.Unit,
		MinValue:     m.MinValue,
		MaxValue:     m.MaxValue,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

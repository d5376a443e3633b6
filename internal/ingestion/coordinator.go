package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-quality-monitor/internal/domain/temperature"

	"github.com/google/uuid"
)

// RecordCoordinator finds or lazily creates the daily record of a
// facility/department. Losing a creation race is not an error: the winner's
// row is read back instead.
type RecordCoordinator struct {
	records  temperature.RecordRepository
	calendar *Calendar
}

func NewRecordCoordinator(records temperature.RecordRepository, calendar *Calendar) *RecordCoordinator {
	return &RecordCoordinator{records: records, calendar: calendar}
}

func (c *RecordCoordinator) EnsureRecord(ctx context.Context, facilityID uuid.UUID, departmentID *uuid.UUID, receivedAt time.Time) (uuid.UUID, error) {
	key := temperature.DailyKey{
		FacilityID:   facilityID,
		DepartmentID: departmentID,
		Date:         c.calendar.DateOf(receivedAt),
	}

	record, err := c.records.FindDaily(ctx, key)
	if err == nil {
		return record.ID, nil
	}
	if !errors.Is(err, temperature.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("failed to read daily record: %w", err)
	}

	record, err = c.records.CreateDaily(ctx, key)
	if err == nil {
		return record.ID, nil
	}
	if !errors.Is(err, temperature.ErrRecordAlreadyExists) {
		return uuid.Nil, fmt.Errorf("failed to create daily record: %w", err)
	}

	record, err = c.records.FindDaily(ctx, key)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to reread daily record after conflict: %w", err)
	}
	return record.ID, nil
}

package temperature

import (
	"time"

	"github.com/google/uuid"
)

// Provenance distinguishes manually entered values from sensor-derived ones.
type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceSensor Provenance = "sensor"
)

// Item is the logical quantity detail values are recorded against,
// e.g. "refrigerator 2 temperature".
type Item struct {
	ID           uuid.UUID
	FacilityID   uuid.UUID
	DepartmentID *uuid.UUID
	Name         string
	Unit         string
	MinValue     *float64
	MaxValue     *float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyKey identifies the one daily record of a facility/department.
// Date is the civil date at midnight UTC.
type DailyKey struct {
	FacilityID   uuid.UUID
	DepartmentID *uuid.UUID
	Date         time.Time
}

// Record is the daily aggregate row detail values attach to.
type Record struct {
	ID           uuid.UUID
	FacilityID   uuid.UUID
	DepartmentID *uuid.UUID
	RecordDate   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Detail is one recorded value of an item within a daily record.
type Detail struct {
	ID         uuid.UUID
	RecordID   uuid.UUID
	ItemID     uuid.UUID
	Value      float64
	Provenance Provenance
	DeviceID   *uuid.UUID
	RecordedAt time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	FacilityID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Unit         string     `gorm:"type:varchar(32);not null"`
	MinValue     *float64   `gorm:"type:double precision"`
	MaxValue     *float64   `gorm:"type:double precision"`
	IsActive     bool       `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (ItemModel) TableName() string {
	return "temperature_items"
}

// RecordModel is the daily aggregate row. Uniqueness of
// (facility_id, department_id, record_date) is enforced by an expression
// index created in the migrations, since department_id is nullable.
type RecordModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	FacilityID   uuid.UUID  `gorm:"type:uuid;not null"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	RecordDate   time.Time  `gorm:"type:date;not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (RecordModel) TableName() string {
	return "temperature_records"
}

type DetailModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	RecordID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_record_details_record_item"`
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_record_details_record_item"`
	Value      float64    `gorm:"type:double precision;not null"`
	Provenance string     `gorm:"type:varchar(16);not null"`
	DeviceID   *uuid.UUID `gorm:"type:uuid"`
	RecordedAt time.Time  `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (DetailModel) TableName() string {
	return "temperature_record_details"
}

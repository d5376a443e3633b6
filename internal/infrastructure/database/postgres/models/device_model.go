package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel represents the database model for sensor devices.
type DeviceModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	Identifier     string     `gorm:"column:device_identifier;type:varchar(128);not null;uniqueIndex"`
	IPAddress      *string    `gorm:"type:varchar(64);index"`
	FacilityID     *uuid.UUID `gorm:"type:uuid;index"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`
	Name           *string    `gorm:"type:varchar(255)"`
	AuthTokenHash  *string    `gorm:"type:varchar(255)"`
	BatteryVoltage *float64   `gorm:"type:double precision"`
	IsActive       bool       `gorm:"not null"`
	LastSeenAt     *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (DeviceModel) TableName() string {
	return "sensor_devices"
}

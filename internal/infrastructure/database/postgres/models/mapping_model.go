package models

import (
	"time"

	"github.com/google/uuid"
)

type MappingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	DeviceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sensor_mappings_device_channel;uniqueIndex:idx_sensor_mappings_device_item"`
	Channel   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_sensor_mappings_device_channel"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_sensor_mappings_device_item"`
	Offset    float64   `gorm:"column:offset_value;type:double precision;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (MappingModel) TableName() string {
	return "sensor_mappings"
}

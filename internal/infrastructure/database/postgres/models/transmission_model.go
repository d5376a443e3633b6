package models

import (
	"time"

	"github.com/google/uuid"
)

type TransmissionLogModel struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"`
	DeviceID         *uuid.UUID `gorm:"type:uuid;index"`
	DeviceIdentifier *string    `gorm:"type:varchar(128)"`
	Payload          string     `gorm:"type:text;not null"`
	RemoteAddr       string     `gorm:"type:varchar(64)"`
	Transport        string     `gorm:"type:varchar(16);not null"`
	ReceivedAt       time.Time  `gorm:"type:timestamptz;not null;index"`
}

func (TransmissionLogModel) TableName() string {
	return "sensor_transmission_logs"
}

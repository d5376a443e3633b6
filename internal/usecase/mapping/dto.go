package mapping

import (
	"time"

	domainMapping "lab-quality-monitor/internal/domain/mapping"

	"github.com/google/uuid"
)

const channelNames = "channel1_temperature channel1_humidity channel2_temperature channel2_pressure"

type CreateMappingRequest struct {
	Channel string    `json:"channel" validate:"required,oneof=channel1_temperature channel1_humidity channel2_temperature channel2_pressure"`
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Offset  *float64  `json:"offset" validate:"omitempty,gte=-100,lte=100"`
}

type UpdateMappingRequest struct {
	Channel *string    `json:"channel" validate:"omitempty,oneof=channel1_temperature channel1_humidity channel2_temperature channel2_pressure"`
	ItemID  *uuid.UUID `json:"item_id"`
	Offset  *float64   `json:"offset" validate:"omitempty,gte=-100,lte=100"`
}

type MappingResponse struct {
	ID        uuid.UUID             `json:"id"`
	DeviceID  uuid.UUID             `json:"device_id"`
	Channel   domainMapping.Channel `json:"channel"`
	ItemID    uuid.UUID             `json:"item_id"`
	Offset    float64               `json:"offset"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func ToMappingResponse(m *domainMapping.Mapping) *MappingResponse {
	if m == nil {
		return nil
	}
	return &MappingResponse{
		ID:        m.ID,
		DeviceID:  m.DeviceID,
		Channel:   m.Channel,
		ItemID:    m.ItemID,
		Offset:    m.Offset,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

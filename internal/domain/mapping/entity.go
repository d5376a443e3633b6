package mapping

import (
	"time"

	"github.com/google/uuid"
)

// Channel is one named measurement stream a device can report.
type Channel string

const (
	ChannelTemperature1 Channel = "channel1_temperature"
	ChannelHumidity1    Channel = "channel1_humidity"
	ChannelTemperature2 Channel = "channel2_temperature"
	ChannelPressure2    Channel = "channel2_pressure"
)

// Channels lists every channel in payload order.
var Channels = []Channel{
	ChannelTemperature1,
	ChannelHumidity1,
	ChannelTemperature2,
	ChannelPressure2,
}

// IsValid reports whether c is one of the enumerated channels.
func (c Channel) IsValid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// Mapping binds a device channel to a temperature item with an additive offset.
type Mapping struct {
	ID        uuid.UUID
	DeviceID  uuid.UUID
	Channel   Channel
	ItemID    uuid.UUID
	Offset    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Apply returns the raw reading corrected by the mapping offset.
func (m Mapping) Apply(raw float64) float64 {
	return raw + m.Offset
}

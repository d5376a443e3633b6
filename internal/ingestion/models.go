package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lab-quality-monitor/internal/domain/mapping"

	"github.com/google/uuid"
)

// Status is the terminal outcome of one transmission.
type Status string

const (
	StatusUnregistered Status = "unregistered"
	StatusNoMapping    Status = "no_mapping"
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
)

const (
	TransportHTTP = "http"
	TransportMQTT = "mqtt"
)

// SensorPayload represents one JSON transmission from sensor firmware
type SensorPayload struct {
	DeviceID       string          `json:"device_id" validate:"omitempty,max=128,printascii"`
	Temperature1   *float64        `json:"temperature1" validate:"omitempty,gte=-100,lte=150"`
	Humidity1      *float64        `json:"humidity1" validate:"omitempty,gte=0,lte=100"`
	Temperature2   *float64        `json:"temperature2" validate:"omitempty,gte=-100,lte=150"`
	Pressure2      *float64        `json:"pressure2" validate:"omitempty,gte=0,lte=2000"`
	BatteryVoltage *float64        `json:"battery_voltage" validate:"omitempty,gte=0,lte=10"`
	Timestamp      json.RawMessage `json:"timestamp,omitempty"` // advisory; receipt time is authoritative
	AuthToken      string          `json:"auth_token" validate:"omitempty,max=256"`
}

// Reading returns the raw value reported for channel, or nil when the
// channel is absent, null or not one of the enumerated channels.
func (p *SensorPayload) Reading(channel mapping.Channel) *float64 {
	switch channel {
	case mapping.ChannelTemperature1:
		return p.Temperature1
	case mapping.ChannelHumidity1:
		return p.Humidity1
	case mapping.ChannelTemperature2:
		return p.Temperature2
	case mapping.ChannelPressure2:
		return p.Pressure2
	default:
		return nil
	}
}

// ParsePayload decodes a raw transmission body. Anything other than a JSON
// object is rejected with a *ValidationError.
func ParsePayload(raw []byte) (*SensorPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &ValidationError{Field: "body", Message: "payload is empty"}
	}
	if trimmed[0] != '{' {
		return nil, &ValidationError{Field: "body", Message: "payload must be a JSON object"}
	}

	var payload SensorPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &ValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type.Kind(), typeErr.Value),
			}
		}
		return nil, &ValidationError{Field: "body", Message: "malformed JSON"}
	}

	return &payload, nil
}

// Transmission is one inbound payload as seen by a transport.
type Transmission struct {
	Raw        []byte
	RemoteAddr string
	// Token is the device secret presented outside the body (HTTP header).
	Token string
	// DeviceHint is an identifier supplied by the transport, e.g. an MQTT
	// topic segment. The payload's device_id takes precedence.
	DeviceHint string
	Transport  string
	ReceivedAt time.Time
	// RequestID correlates pipeline logs with the HTTP access log.
	RequestID string
	// Truncated is set when the transport cut Raw at its size cap. The
	// prefix is still logged and the transmission is rejected as invalid.
	Truncated bool
}

// WrittenItem is one detail value recorded by a transmission.
type WrittenItem struct {
	ItemID  uuid.UUID       `json:"item_id"`
	Channel mapping.Channel `json:"channel"`
	Value   float64         `json:"value"`
}

// FailedItem is one mapping whose detail write failed.
type FailedItem struct {
	ItemID  uuid.UUID       `json:"item_id"`
	Channel mapping.Channel `json:"channel"`
	Error   string          `json:"error"`
}

// Result is the response summary returned to the device.
type Result struct {
	Status       Status        `json:"status"`
	Message      string        `json:"message"`
	DeviceID     *uuid.UUID    `json:"device_id,omitempty"`
	RecordID     *uuid.UUID    `json:"record_id,omitempty"`
	WrittenCount int           `json:"written_count"`
	Written      []WrittenItem `json:"written,omitempty"`
	Failed       []FailedItem  `json:"failed,omitempty"`

	invalid bool
}

// Invalid reports whether the error outcome was caused by the payload
// rather than by infrastructure.
func (r *Result) Invalid() bool {
	return r.invalid
}

// HTTPStatus maps the outcome to a response code. Only infrastructure
// failures produce a 5xx; firmware cannot meaningfully retry anything else.
func (r *Result) HTTPStatus() int {
	if r.Status != StatusError {
		return http.StatusOK
	}
	if r.invalid {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

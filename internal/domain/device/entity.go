package device

import (
	"time"

	"github.com/google/uuid"
)

// OnlineWindow is how recently a device must have transmitted to count as online.
const OnlineWindow = 10 * time.Minute

// Device represents a registered sensor unit
type Device struct {
	ID             uuid.UUID
	Identifier     string
	IPAddress      *string
	FacilityID     *uuid.UUID
	DepartmentID   *uuid.UUID
	Name           *string
	AuthTokenHash  *string
	BatteryVoltage *float64
	IsActive       bool
	LastSeenAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOnline checks if the device transmitted within OnlineWindow
func (d *Device) IsOnline() bool {
	if d.LastSeenAt == nil {
		return false
	}
	return time.Since(*d.LastSeenAt) < OnlineWindow
}

// CanIngest reports whether readings from the device may be recorded.
// Pending devices created by auto-registration have no facility yet.
func (d *Device) CanIngest() bool {
	return d.IsActive && d.FacilityID != nil
}

// HasAuthToken reports whether a per-device secret is configured.
func (d *Device) HasAuthToken() bool {
	return d.AuthTokenHash != nil && *d.AuthTokenHash != ""
}

// Seen carries the observations recorded on every accepted transmission.
type Seen struct {
	At             time.Time
	IPAddress      string
	BatteryVoltage *float64
}

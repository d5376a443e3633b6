package transmission

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Log is the append-only record of one inbound payload.
type Log struct {
	ID               int64
	DeviceID         *uuid.UUID
	DeviceIdentifier *string
	Payload          []byte
	RemoteAddr       string
	Transport        string
	ReceivedAt       time.Time
}

// Repository is write-only; the pipeline never reads logs back.
type Repository interface {
	Append(ctx context.Context, log *Log) error
}

// Pruner removes rows that have aged out of the retention window.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

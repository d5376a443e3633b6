package temperature

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// RecordRepository persists daily records and their details.
type RecordRepository interface {
	FindDaily(ctx context.Context, key DailyKey) (*Record, error)
	// CreateDaily inserts the daily record, returning ErrRecordAlreadyExists
	// when the uniqueness constraint on the key rejects the insert.
	CreateDaily(ctx context.Context, key DailyKey) (*Record, error)
	// UpsertDetail writes the detail, overwriting value and provenance of an
	// existing (record, item) row.
	UpsertDetail(ctx context.Context, detail *Detail) error
}

type ItemRepository interface {
	GetByID(ctx context.Context, itemID uuid.UUID) (*Item, error)
}

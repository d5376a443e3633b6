package postgres

import (
	"context"
	"fmt"
	"time"

	"lab-quality-monitor/internal/domain/transmission"
	"lab-quality-monitor/internal/infrastructure/database/postgres/models"
)

type TransmissionRepository struct {
	db *DB
}

func NewTransmissionRepository(db *DB) transmission.Repository {
	return &TransmissionRepository{db: db}
}

func NewTransmissionPruner(db *DB) transmission.Pruner {
	return &TransmissionRepository{db: db}
}

func (r *TransmissionRepository) Append(ctx context.Context, log *transmission.Log) error {
	dbModel := &models.TransmissionLogModel{
		DeviceID:         log.DeviceID,
		DeviceIdentifier: log.DeviceIdentifier,
		Payload:          string(log.Payload),
		RemoteAddr:       log.RemoteAddr,
		Transport:        log.Transport,
		ReceivedAt:       log.ReceivedAt,
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to append transmission log: %w", err)
	}

	log.ID = dbModel.ID
	return nil
}

func (r *TransmissionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&models.TransmissionLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune transmission logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

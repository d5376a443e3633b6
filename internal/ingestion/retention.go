package ingestion

import (
	"context"
	"time"

	"lab-quality-monitor/internal/domain/transmission"
	"lab-quality-monitor/internal/logger"

	"go.uber.org/zap"
)

// StartRetentionJob prunes raw transmission logs older than retention every
// interval until ctx is cancelled. It blocks; run it in its own goroutine.
func StartRetentionJob(ctx context.Context, pruner transmission.Pruner, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.Named("retention")
	log.Info("Transmission log retention job started",
		zap.Duration("retention", retention),
		zap.Duration("interval", interval),
	)

	pruneTransmissionLogs(ctx, log, pruner, retention)

	for {
		select {
		case <-ctx.Done():
			log.Info("Transmission log retention job stopped")
			return
		case <-ticker.C:
			pruneTransmissionLogs(ctx, log, pruner, retention)
		}
	}
}

func pruneTransmissionLogs(ctx context.Context, log *zap.Logger, pruner transmission.Pruner, retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	deleted, err := pruner.DeleteBefore(ctx, cutoff)
	if err != nil {
		log.Error("Failed to prune transmission logs", zap.Time("cutoff", cutoff), zap.Error(err))
		return
	}

	log.Debug("Transmission logs pruned",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
}

package ingestion

import (
	"context"
	"fmt"

	"lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MappingResolver loads a device's channel mappings. Mappings are read fresh
// for every transmission so administrative edits apply immediately.
type MappingResolver struct {
	mappings mapping.Repository
	log      *zap.Logger
}

func NewMappingResolver(mappings mapping.Repository) *MappingResolver {
	return &MappingResolver{
		mappings: mappings,
		log:      logger.Named("mapping_resolver"),
	}
}

// Resolve returns the usable mappings of the device. Unknown channel tags
// are dropped; an empty slice is a normal outcome.
func (r *MappingResolver) Resolve(ctx context.Context, deviceID uuid.UUID) ([]mapping.Mapping, error) {
	stored, err := r.mappings.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	usable := make([]mapping.Mapping, 0, len(stored))
	for _, m := range stored {
		if !m.Channel.IsValid() {
			r.log.Debug("Ignoring mapping with unknown channel",
				zap.String("device_id", deviceID.String()),
				zap.String("channel", string(m.Channel)),
			)
			continue
		}
		usable = append(usable, m)
	}

	return usable, nil
}

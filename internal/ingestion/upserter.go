package ingestion

import (
	"context"
	"sort"
	"time"

	"lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/temperature"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

const defaultMaxParallelWrites = 4

// ItemResult is the outcome of one mapping's detail write.
type ItemResult struct {
	Mapping mapping.Mapping
	Value   float64
	Err     error
}

// DetailUpserter writes one detail value per mapped reading. Writes run
// concurrently and independently; a failed write never rolls back or blocks
// its siblings.
type DetailUpserter struct {
	records     temperature.RecordRepository
	maxParallel int
}

func NewDetailUpserter(records temperature.RecordRepository, maxParallel int) *DetailUpserter {
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallelWrites
	}
	return &DetailUpserter{records: records, maxParallel: maxParallel}
}

// Apply waits for every write and returns the results in channel order.
// Mappings whose reading is absent or null produce no result at all.
func (u *DetailUpserter) Apply(ctx context.Context, recordID, deviceID uuid.UUID, mappings []mapping.Mapping, payload *SensorPayload, recordedAt time.Time) []ItemResult {
	p := pool.NewWithResults[ItemResult]().WithMaxGoroutines(u.maxParallel)

	for _, m := range mappings {
		raw := payload.Reading(m.Channel)
		if raw == nil {
			continue
		}

		value := m.Apply(*raw)
		p.Go(func() ItemResult {
			err := u.records.UpsertDetail(ctx, &temperature.Detail{
				RecordID:   recordID,
				ItemID:     m.ItemID,
				Value:      value,
				Provenance: temperature.ProvenanceSensor,
				DeviceID:   &deviceID,
				RecordedAt: recordedAt,
			})
			return ItemResult{Mapping: m, Value: value, Err: err}
		})
	}

	results := p.Wait()
	sort.SliceStable(results, func(i, j int) bool {
		return channelOrder(results[i].Mapping.Channel) < channelOrder(results[j].Mapping.Channel)
	})
	return results
}

func channelOrder(c mapping.Channel) int {
	for i, known := range mapping.Channels {
		if c == known {
			return i
		}
	}
	return len(mapping.Channels)
}

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/domain/transmission"
	"lab-quality-monitor/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultProcessTimeout = 10 * time.Second
	defaultLogTimeout     = 5 * time.Second

	timeoutMessage = "processing timed out"
)

// Config tunes the pipeline.
type Config struct {
	ProcessTimeout    time.Duration
	LogTimeout        time.Duration
	MaxParallelWrites int
	RequireToken      bool
	AutoRegister      bool
	Calendar          *Calendar
}

// Processor runs one transmission through device resolution, the raw log,
// mapping resolution, the daily record and the detail writes. It holds no
// per-transmission state and is safe for concurrent use.
type Processor struct {
	devices  *DeviceResolver
	mappings *MappingResolver
	records  *RecordCoordinator
	details  *DetailUpserter
	rawLogs  transmission.Repository

	processTimeout time.Duration
	logTimeout     time.Duration

	metrics    *MetricsTracker
	collectors *Collectors
	log        *zap.Logger
}

// NewProcessor wires the pipeline stages over repos. collectors may be nil.
func NewProcessor(repos *Repositories, cfg Config, collectors *Collectors) (*Processor, error) {
	if repos == nil {
		return nil, errors.New("repositories are required")
	}

	calendar := cfg.Calendar
	if calendar == nil {
		var err error
		if calendar, err = NewCalendar(""); err != nil {
			return nil, err
		}
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = defaultProcessTimeout
	}
	if cfg.LogTimeout <= 0 {
		cfg.LogTimeout = defaultLogTimeout
	}
	if collectors == nil {
		collectors = NewCollectors(nil)
	}

	return &Processor{
		devices: NewDeviceResolver(repos.Devices, ResolverOptions{
			RequireToken: cfg.RequireToken,
			AutoRegister: cfg.AutoRegister,
		}),
		mappings:       NewMappingResolver(repos.Mappings),
		records:        NewRecordCoordinator(repos.Records, calendar),
		details:        NewDetailUpserter(repos.Records, cfg.MaxParallelWrites),
		rawLogs:        repos.Transmissions,
		processTimeout: cfg.ProcessTimeout,
		logTimeout:     cfg.LogTimeout,
		metrics:        NewMetricsTracker(),
		collectors:     collectors,
		log:            logger.Named("ingestion"),
	}, nil
}

// Ingest handles one transmission and always returns a result. Exactly one
// raw log row is appended per call, whatever the outcome.
func (p *Processor) Ingest(ctx context.Context, tx Transmission) *Result {
	start := time.Now()
	if tx.ReceivedAt.IsZero() {
		tx.ReceivedAt = start
	}
	if tx.Transport == "" {
		tx.Transport = TransportHTTP
	}

	ctx, cancel := context.WithTimeout(ctx, p.processTimeout)
	defer cancel()

	result := p.process(ctx, &tx)
	p.record(tx.Transport, result, time.Since(start))
	return result
}

func (p *Processor) process(ctx context.Context, tx *Transmission) *Result {
	log := p.log.With(
		zap.String("remote_addr", tx.RemoteAddr),
		zap.String("transport", tx.Transport),
	)
	if tx.RequestID != "" {
		log = log.With(zap.String("request_id", tx.RequestID))
	}

	var (
		payload *SensorPayload
		err     error
	)
	if tx.Truncated {
		err = &ValidationError{Field: "body", Message: "payload exceeds the size limit"}
	} else if payload, err = ParsePayload(tx.Raw); err == nil {
		err = ValidatePayload(payload)
	}
	if err != nil {
		identifier := tx.DeviceHint
		if payload != nil && payload.DeviceID != "" {
			identifier = payload.DeviceID
		}
		p.appendRawLog(ctx, tx, nil, identifier)
		log.Warn("Rejected invalid payload",
			zap.String("device_identifier", identifier),
			zap.String("step", "validate"),
			zap.Error(err),
		)
		return &Result{Status: StatusError, Message: err.Error(), invalid: true}
	}

	identifier := payload.DeviceID
	if identifier == "" {
		identifier = tx.DeviceHint
	}
	token := tx.Token
	if token == "" {
		token = payload.AuthToken
	}
	log = log.With(zap.String("device_identifier", identifier))

	resolution := p.devices.Resolve(ctx, identifier, tx.RemoteAddr, token)

	var deviceID *uuid.UUID
	if resolution.Resolved() {
		deviceID = &resolution.Device.ID
	}
	p.appendRawLog(ctx, tx, deviceID, identifier)

	if ctx.Err() != nil {
		log.Error("Transmission timed out", zap.String("step", "resolve_device"), zap.Error(ctx.Err()))
		return &Result{Status: StatusError, Message: timeoutMessage, DeviceID: deviceID}
	}

	if !resolution.Resolved() {
		log.Info("Transmission from unresolved device",
			zap.String("step", "resolve_device"),
			zap.String("reason", resolution.Reason),
		)
		return &Result{Status: StatusUnregistered, Message: resolution.Reason}
	}

	dev := resolution.Device
	log = log.With(zap.String("device_id", dev.ID.String()))
	p.devices.Touch(dev, device.Seen{
		At:             tx.ReceivedAt,
		IPAddress:      tx.RemoteAddr,
		BatteryVoltage: payload.BatteryVoltage,
	})

	mappings, err := p.mappings.Resolve(ctx, dev.ID)
	if err != nil {
		log.Error("Mapping lookup failed", zap.String("step", "resolve_mappings"), zap.Error(err))
		return &Result{Status: StatusError, Message: failureMessage(ctx, "mapping lookup failed"), DeviceID: deviceID}
	}
	if len(mappings) == 0 {
		return &Result{
			Status:   StatusNoMapping,
			Message:  "no channel mappings configured for device",
			DeviceID: deviceID,
		}
	}

	recordID, err := p.records.EnsureRecord(ctx, *dev.FacilityID, dev.DepartmentID, tx.ReceivedAt)
	if err != nil {
		log.Error("Daily record unavailable",
			zap.String("step", "ensure_record"),
			zap.ByteString("payload", tx.Raw),
			zap.Error(err),
		)
		return &Result{Status: StatusError, Message: failureMessage(ctx, "daily record unavailable"), DeviceID: deviceID}
	}

	results := p.details.Apply(ctx, recordID, dev.ID, mappings, payload, tx.ReceivedAt)

	result := &Result{
		Status:   StatusSuccess,
		DeviceID: deviceID,
		RecordID: &recordID,
	}
	for _, r := range results {
		if r.Err != nil {
			log.Warn("Detail write failed",
				zap.String("step", "upsert_detail"),
				zap.String("channel", string(r.Mapping.Channel)),
				zap.String("item_id", r.Mapping.ItemID.String()),
				zap.Error(r.Err),
			)
			result.Failed = append(result.Failed, FailedItem{
				ItemID:  r.Mapping.ItemID,
				Channel: r.Mapping.Channel,
				Error:   r.Err.Error(),
			})
			continue
		}
		result.Written = append(result.Written, WrittenItem{
			ItemID:  r.Mapping.ItemID,
			Channel: r.Mapping.Channel,
			Value:   r.Value,
		})
	}
	result.WrittenCount = len(result.Written)

	if len(result.Written) == 0 && len(result.Failed) > 0 && ctx.Err() != nil {
		log.Error("Transmission timed out", zap.String("step", "upsert_detail"), zap.Error(ctx.Err()))
		result.Status = StatusError
		result.Message = timeoutMessage
		return result
	}

	switch {
	case len(results) == 0:
		result.Message = "no mapped readings in payload"
	case len(result.Failed) == 0:
		result.Message = fmt.Sprintf("%d readings recorded", result.WrittenCount)
	default:
		result.Message = fmt.Sprintf("%d of %d readings recorded", result.WrittenCount, len(results))
	}
	return result
}

func failureMessage(ctx context.Context, message string) string {
	if ctx.Err() != nil {
		return timeoutMessage
	}
	return message
}

// appendRawLog writes the audit row on a context detached from the request
// so a client disconnect or pipeline timeout cannot drop it.
func (p *Processor) appendRawLog(ctx context.Context, tx *Transmission, deviceID *uuid.UUID, identifier string) {
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.logTimeout)
	defer cancel()

	entry := &transmission.Log{
		DeviceID:   deviceID,
		Payload:    tx.Raw,
		RemoteAddr: tx.RemoteAddr,
		Transport:  tx.Transport,
		ReceivedAt: tx.ReceivedAt,
	}
	if identifier != "" {
		entry.DeviceIdentifier = &identifier
	}

	err := p.rawLogs.Append(logCtx, entry)
	p.collectors.observeRawLog(err)
	if err != nil {
		p.metrics.Update(func(m *IngestMetrics) {
			m.RawLogFailures++
		})
		p.log.Error("Failed to append raw transmission log",
			zap.String("device_identifier", identifier),
			zap.String("remote_addr", tx.RemoteAddr),
			zap.String("step", "raw_log"),
			zap.ByteString("payload", tx.Raw),
			zap.Error(err),
		)
	}
}

func (p *Processor) record(transport string, result *Result, elapsed time.Duration) {
	p.collectors.observe(transport, result, elapsed)

	p.metrics.Update(func(m *IngestMetrics) {
		m.TransmissionsReceived++
		switch {
		case result.Invalid():
			m.Invalid++
		case result.Status == StatusUnregistered:
			m.Unregistered++
		case result.Status == StatusNoMapping:
			m.NoMapping++
		case result.Status == StatusSuccess:
			m.Succeeded++
		default:
			m.Failed++
		}
		m.DetailsWritten += int64(len(result.Written))
		m.DetailsFailed += int64(len(result.Failed))
		m.LastProcessedAt = time.Now()

		if m.AverageProcessingTime == 0 {
			m.AverageProcessingTime = elapsed
		} else {
			m.AverageProcessingTime = (m.AverageProcessingTime + elapsed) / 2
		}
	})
}

// GetMetrics returns current metrics
func (p *Processor) GetMetrics() IngestMetrics {
	return p.metrics.Snapshot()
}

// Wait blocks until background last-seen updates have finished.
func (p *Processor) Wait() {
	p.devices.Wait()
}

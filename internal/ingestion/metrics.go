package ingestion

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics tracks ingestion outcomes since process start
type IngestMetrics struct {
	TransmissionsReceived int64         `json:"transmissions_received"`
	Unregistered          int64         `json:"unregistered"`
	NoMapping             int64         `json:"no_mapping"`
	Succeeded             int64         `json:"succeeded"`
	Invalid               int64         `json:"invalid"`
	Failed                int64         `json:"failed"`
	DetailsWritten        int64         `json:"details_written"`
	DetailsFailed         int64         `json:"details_failed"`
	RawLogFailures        int64         `json:"raw_log_failures"`
	LastProcessedAt       time.Time     `json:"last_processed_at"`
	AverageProcessingTime time.Duration `json:"average_processing_time_ns"`
}

// MetricsTracker provides a goroutine-safe wrapper around IngestMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics IngestMetrics
}

// NewMetricsTracker builds a new tracker with zeroed metrics.
func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

// Update applies a mutation in a thread-safe way.
func (t *MetricsTracker) Update(fn func(*IngestMetrics)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.metrics)
}

// Snapshot returns a copy of the current metrics.
func (t *MetricsTracker) Snapshot() IngestMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}

// Collectors are the Prometheus series exported on /metrics.
type Collectors struct {
	outcomes *prometheus.CounterVec
	details  *prometheus.CounterVec
	rawLogs  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollectors creates the ingestion collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "ingestion",
			Name:      "transmissions_total",
			Help:      "Sensor transmissions by terminal outcome.",
		}, []string{"transport", "status"}),
		details: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "ingestion",
			Name:      "detail_writes_total",
			Help:      "Detail value upserts by result.",
		}, []string{"result"}),
		rawLogs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "ingestion",
			Name:      "raw_log_writes_total",
			Help:      "Raw transmission log appends by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lab",
			Subsystem: "ingestion",
			Name:      "processing_seconds",
			Help:      "Time spent handling one transmission.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}

	if reg != nil {
		reg.MustRegister(c.outcomes, c.details, c.rawLogs, c.duration)
	}
	return c
}

func (c *Collectors) observe(transport string, result *Result, elapsed time.Duration) {
	status := string(result.Status)
	if result.Invalid() {
		status = "invalid"
	}
	c.outcomes.WithLabelValues(transport, status).Inc()
	c.duration.WithLabelValues(status).Observe(elapsed.Seconds())
	c.details.WithLabelValues("written").Add(float64(len(result.Written)))
	c.details.WithLabelValues("failed").Add(float64(len(result.Failed)))
}

func (c *Collectors) observeRawLog(err error) {
	if err != nil {
		c.rawLogs.WithLabelValues("failed").Inc()
		return
	}
	c.rawLogs.WithLabelValues("written").Inc()
}

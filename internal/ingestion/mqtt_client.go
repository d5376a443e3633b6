package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lab-quality-monitor/internal/logger"
	pkgmqtt "lab-quality-monitor/pkg/mqtt"

	"go.uber.org/zap"
)

// MQTTIngestionConfig describes the topic and MQTT connection parameters.
type MQTTIngestionConfig struct {
	ClientConfig *pkgmqtt.Config
	// SensorTopic may contain one single-level wildcard carrying the device
	// identifier, e.g. "sensors/+/readings".
	SensorTopic string
	QoS         byte
}

// Ingester is the part of Processor the transports depend on.
type Ingester interface {
	Ingest(ctx context.Context, tx Transmission) *Result
}

// MQTTIngestionClient wires MQTT messages into the ingestion pipeline.
type MQTTIngestionClient struct {
	cfg      *MQTTIngestionConfig
	client   *pkgmqtt.Client
	ingester Ingester
	log      *zap.Logger

	mu      sync.Mutex
	started bool
}

// NewMQTTIngestionClient builds a new MQTT client for ingestion.
func NewMQTTIngestionClient(cfg *MQTTIngestionConfig, ingester Ingester) (*MQTTIngestionClient, error) {
	if cfg == nil || cfg.ClientConfig == nil {
		return nil, errors.New("mqtt ingestion config is not configured")
	}
	if cfg.SensorTopic == "" {
		return nil, errors.New("no MQTT sensor topic configured")
	}
	if ingester == nil {
		return nil, errors.New("ingester is required")
	}

	log := logger.Named("mqtt")
	return &MQTTIngestionClient{
		cfg:      cfg,
		client:   pkgmqtt.NewClient(cfg.ClientConfig, log),
		ingester: ingester,
		log:      log,
	}, nil
}

// Start establishes the MQTT connection and subscribes to the sensor topic.
func (c *MQTTIngestionClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return err
	}

	if err := c.client.Subscribe(c.cfg.SensorTopic, c.cfg.QoS, c.handleSensorMessage); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", c.cfg.SensorTopic, err)
	}

	c.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (c *MQTTIngestionClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.cfg.SensorTopic); err != nil {
		c.log.Warn("Failed to unsubscribe from MQTT topic", zap.Error(err))
	}

	c.client.Disconnect()
	c.started = false
}

// handleSensorMessage runs one message through the pipeline. MQTT has no
// reply channel, so the outcome is only logged.
func (c *MQTTIngestionClient) handleSensorMessage(topic string, payload []byte) {
	result := c.ingester.Ingest(context.Background(), Transmission{
		Raw:        payload,
		DeviceHint: DeviceFromTopic(c.cfg.SensorTopic, topic),
		Transport:  TransportMQTT,
		ReceivedAt: time.Now(),
	})

	fields := []zap.Field{
		zap.String("topic", topic),
		zap.String("status", string(result.Status)),
		zap.String("message", result.Message),
		zap.Int("written", result.WrittenCount),
	}
	if result.Status == StatusError {
		c.log.Warn("MQTT transmission failed", fields...)
		return
	}
	c.log.Debug("MQTT transmission processed", fields...)
}

// DeviceFromTopic returns the topic level matched by the first "+"
// wildcard of filter, or "" when the filter has none or does not match.
func DeviceFromTopic(filter, topic string) string {
	filterLevels := strings.Split(filter, "/")
	topicLevels := strings.Split(topic, "/")

	for i, level := range filterLevels {
		if level == "#" {
			return ""
		}
		if i >= len(topicLevels) {
			return ""
		}
		if level == "+" {
			return topicLevels[i]
		}
		if level != topicLevels[i] {
			return ""
		}
	}
	return ""
}

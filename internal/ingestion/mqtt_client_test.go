package ingestion

import (
	"context"
	"sync"
	"testing"

	pkgmqtt "lab-quality-monitor/pkg/mqtt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceFromTopic(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   string
	}{
		{filter: "sensors/+/readings", topic: "sensors/fridge-01/readings", want: "fridge-01"},
		{filter: "lab/+/+/data", topic: "lab/ward-3/unit-9/data", want: "ward-3"},
		{filter: "sensors/+/readings", topic: "other/fridge-01/readings", want: ""},
		{filter: "sensors/readings", topic: "sensors/readings", want: ""},
		{filter: "sensors/#", topic: "sensors/fridge-01", want: ""},
		{filter: "sensors/+/readings", topic: "sensors", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, DeviceFromTopic(tt.filter, tt.topic))
		})
	}
}

type recordingIngester struct {
	mu  sync.Mutex
	txs []Transmission
}

func (r *recordingIngester) Ingest(_ context.Context, tx Transmission) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	return &Result{Status: StatusUnregistered, Message: "device not registered"}
}

func TestMQTTIngestionClient_HandleSensorMessage(t *testing.T) {
	ingester := &recordingIngester{}
	client, err := NewMQTTIngestionClient(&MQTTIngestionConfig{
		ClientConfig: &pkgmqtt.Config{Broker: "tcp://localhost:1883", ClientID: "test"},
		SensorTopic:  "sensors/+/readings",
	}, ingester)
	require.NoError(t, err)

	client.handleSensorMessage("sensors/fridge-01/readings", []byte(`{"temperature1":4}`))

	require.Len(t, ingester.txs, 1)
	tx := ingester.txs[0]
	assert.Equal(t, "fridge-01", tx.DeviceHint)
	assert.Equal(t, TransportMQTT, tx.Transport)
	assert.Equal(t, `{"temperature1":4}`, string(tx.Raw))
	assert.False(t, tx.ReceivedAt.IsZero())
}

func TestNewMQTTIngestionClient_RequiresTopic(t *testing.T) {
	_, err := NewMQTTIngestionClient(&MQTTIngestionConfig{ClientConfig: &pkgmqtt.Config{}}, &recordingIngester{})
	assert.Error(t, err)
}

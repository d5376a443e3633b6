package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_DateOf(t *testing.T) {
	tests := []struct {
		name       string
		zone       string
		receivedAt time.Time
		want       time.Time
	}{
		{
			name:       "default offset rolls over before UTC midnight",
			zone:       "",
			receivedAt: time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC),
			want:       time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "same day in fixed offset",
			zone:       "+09:00",
			receivedAt: time.Date(2024, 6, 1, 14, 59, 59, 0, time.UTC),
			want:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "negative offset",
			zone:       "-0500",
			receivedAt: time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC),
			want:       time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "receipt time in another zone",
			zone:       "UTC",
			receivedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("JST", 9*3600)),
			want:       time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCalendar(tt.zone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.DateOf(tt.receivedAt))
		})
	}
}

func TestNewCalendar_InvalidZone(t *testing.T) {
	_, err := NewCalendar("+25:00")
	assert.Error(t, err)

	_, err = NewCalendar("Mars/Olympus_Mons")
	assert.Error(t, err)
}

package ingestion

import (
	"context"
	"errors"
	"testing"

	"lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/mapping/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMappingResolver_DropsUnknownChannels(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	deviceID := uuid.New()
	repo.EXPECT().ListByDevice(gomock.Any(), deviceID).Return([]mapping.Mapping{
		{Channel: mapping.ChannelTemperature1, ItemID: uuid.New()},
		{Channel: "channelA-temp", ItemID: uuid.New()},
		{Channel: mapping.ChannelPressure2, ItemID: uuid.New()},
	}, nil)

	mappings, err := NewMappingResolver(repo).Resolve(context.Background(), deviceID)

	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, mapping.ChannelTemperature1, mappings[0].Channel)
	assert.Equal(t, mapping.ChannelPressure2, mappings[1].Channel)
}

func TestMappingResolver_EmptyIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().ListByDevice(gomock.Any(), gomock.Any()).Return(nil, nil)

	mappings, err := NewMappingResolver(repo).Resolve(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestMappingResolver_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().ListByDevice(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := NewMappingResolver(repo).Resolve(context.Background(), uuid.New())

	assert.Error(t, err)
}

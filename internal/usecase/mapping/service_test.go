package mapping

import (
	"context"
	"testing"

	domainDevice "lab-quality-monitor/internal/domain/device"
	deviceMocks "lab-quality-monitor/internal/domain/device/mocks"
	domainMapping "lab-quality-monitor/internal/domain/mapping"
	mappingMocks "lab-quality-monitor/internal/domain/mapping/mocks"
	"lab-quality-monitor/internal/domain/temperature"
	temperatureMocks "lab-quality-monitor/internal/domain/temperature/mocks"
	appErrors "lab-quality-monitor/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc      *Service
	mappings *mappingMocks.MockRepository
	devices  *deviceMocks.MockRepository
	items    *temperatureMocks.MockItemRepository
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		mappings: mappingMocks.NewMockRepository(ctrl),
		devices:  deviceMocks.NewMockRepository(ctrl),
		items:    temperatureMocks.NewMockItemRepository(ctrl),
	}
	f.svc = NewService(f.mappings, f.devices, f.items)
	return f
}

func placedDevice() *domainDevice.Device {
	facility := uuid.New()
	return &domainDevice.Device{ID: uuid.New(), Identifier: "fridge-01", FacilityID: &facility, IsActive: true}
}

func TestCreateMapping(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	itemID := uuid.New()
	offset := -2.0

	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), itemID).Return(&temperature.Item{ID: itemID, FacilityID: *dev.FacilityID}, nil)
	f.mappings.EXPECT().ListByDevice(gomock.Any(), dev.ID).Return(nil, nil)
	f.mappings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *domainMapping.Mapping) error {
		m.ID = uuid.New()
		return nil
	})

	resp, err := f.svc.CreateMapping(context.Background(), dev.ID, &CreateMappingRequest{
		Channel: "channel2_temperature",
		ItemID:  itemID,
		Offset:  &offset,
	})

	require.NoError(t, err)
	assert.Equal(t, domainMapping.ChannelTemperature2, resp.Channel)
	assert.Equal(t, -2.0, resp.Offset)
	assert.Equal(t, dev.ID, resp.DeviceID)
}

func TestCreateMapping_RejectsUnknownChannel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateMapping(context.Background(), uuid.New(), &CreateMappingRequest{
		Channel: "channel3_temperature",
		ItemID:  uuid.New(),
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestCreateMapping_ItemMustExist(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	itemID := uuid.New()

	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), itemID).Return(nil, temperature.ErrItemNotFound)

	_, err := f.svc.CreateMapping(context.Background(), dev.ID, &CreateMappingRequest{
		Channel: "channel1_temperature",
		ItemID:  itemID,
	})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
	assert.ErrorIs(t, err, temperature.ErrItemNotFound)
}

func TestCreateMapping_ItemFromAnotherFacility(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	itemID := uuid.New()

	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), itemID).Return(&temperature.Item{ID: itemID, FacilityID: uuid.New()}, nil)

	_, err := f.svc.CreateMapping(context.Background(), dev.ID, &CreateMappingRequest{
		Channel: "channel1_temperature",
		ItemID:  itemID,
	})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestCreateMapping_ChannelAlreadyMapped(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	itemID := uuid.New()

	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), itemID).Return(&temperature.Item{ID: itemID, FacilityID: *dev.FacilityID}, nil)
	f.mappings.EXPECT().ListByDevice(gomock.Any(), dev.ID).Return(nil, nil)
	f.mappings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domainMapping.ErrMappingAlreadyExists)

	_, err := f.svc.CreateMapping(context.Background(), dev.ID, &CreateMappingRequest{
		Channel: "channel1_temperature",
		ItemID:  itemID,
	})

	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestCreateMapping_ItemAlreadyMappedOnAnotherChannel(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	itemID := uuid.New()

	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), itemID).Return(&temperature.Item{ID: itemID, FacilityID: *dev.FacilityID}, nil)
	f.mappings.EXPECT().ListByDevice(gomock.Any(), dev.ID).Return([]domainMapping.Mapping{
		{ID: uuid.New(), DeviceID: dev.ID, Channel: domainMapping.ChannelTemperature1, ItemID: itemID},
	}, nil)

	_, err := f.svc.CreateMapping(context.Background(), dev.ID, &CreateMappingRequest{
		Channel: "channel2_temperature",
		ItemID:  itemID,
	})

	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
	assert.ErrorIs(t, err, domainMapping.ErrItemAlreadyMapped)
}

func TestListByDevice_UnknownDevice(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.devices.EXPECT().GetByID(gomock.Any(), id).Return(nil, domainDevice.ErrDeviceNotFound)

	_, err := f.svc.ListByDevice(context.Background(), id)

	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestUpdateMapping_OffsetOnly(t *testing.T) {
	f := newFixture(t)
	existing := &domainMapping.Mapping{
		ID:       uuid.New(),
		DeviceID: uuid.New(),
		Channel:  domainMapping.ChannelTemperature1,
		ItemID:   uuid.New(),
		Offset:   0,
	}
	offset := 0.5

	f.mappings.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
	f.mappings.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *domainMapping.Mapping) error {
		assert.Equal(t, 0.5, m.Offset)
		assert.Equal(t, domainMapping.ChannelTemperature1, m.Channel)
		return nil
	})

	resp, err := f.svc.UpdateMapping(context.Background(), existing.ID, &UpdateMappingRequest{Offset: &offset})

	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.Offset)
}

func TestUpdateMapping_NewItemIsChecked(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	existing := &domainMapping.Mapping{ID: uuid.New(), DeviceID: dev.ID, Channel: domainMapping.ChannelHumidity1, ItemID: uuid.New()}
	newItem := uuid.New()

	f.mappings.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), newItem).Return(nil, temperature.ErrItemNotFound)

	_, err := f.svc.UpdateMapping(context.Background(), existing.ID, &UpdateMappingRequest{ItemID: &newItem})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateMapping_ItemAlreadyMappedOnAnotherChannel(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	taken := uuid.New()
	existing := &domainMapping.Mapping{ID: uuid.New(), DeviceID: dev.ID, Channel: domainMapping.ChannelHumidity1, ItemID: uuid.New()}

	f.mappings.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), taken).Return(&temperature.Item{ID: taken, FacilityID: *dev.FacilityID}, nil)
	f.mappings.EXPECT().ListByDevice(gomock.Any(), dev.ID).Return([]domainMapping.Mapping{
		*existing,
		{ID: uuid.New(), DeviceID: dev.ID, Channel: domainMapping.ChannelTemperature1, ItemID: taken},
	}, nil)

	_, err := f.svc.UpdateMapping(context.Background(), existing.ID, &UpdateMappingRequest{ItemID: &taken})

	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
	assert.ErrorIs(t, err, domainMapping.ErrItemAlreadyMapped)
}

func TestUpdateMapping_RetargetToFreeItem(t *testing.T) {
	f := newFixture(t)
	dev := placedDevice()
	free := uuid.New()
	existing := &domainMapping.Mapping{ID: uuid.New(), DeviceID: dev.ID, Channel: domainMapping.ChannelHumidity1, ItemID: uuid.New()}

	f.mappings.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
	f.devices.EXPECT().GetByID(gomock.Any(), dev.ID).Return(dev, nil)
	f.items.EXPECT().GetByID(gomock.Any(), free).Return(&temperature.Item{ID: free, FacilityID: *dev.FacilityID}, nil)
	f.mappings.EXPECT().ListByDevice(gomock.Any(), dev.ID).Return([]domainMapping.Mapping{*existing}, nil)
	f.mappings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.svc.UpdateMapping(context.Background(), existing.ID, &UpdateMappingRequest{ItemID: &free})

	require.NoError(t, err)
	assert.Equal(t, free, resp.ItemID)
}

func TestDeleteMapping_NotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.mappings.EXPECT().Delete(gomock.Any(), id).Return(domainMapping.ErrMappingNotFound)

	err := f.svc.DeleteMapping(context.Background(), id)

	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

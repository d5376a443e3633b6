package ingestion

import (
	"context"
	"errors"
	"testing"

	"lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/domain/device/mocks"
	"lab-quality-monitor/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func activeDevice(identifier string) *device.Device {
	return &device.Device{
		ID:         uuid.New(),
		Identifier: identifier,
		FacilityID: ptr(uuid.New()),
		IsActive:   true,
	}
}

func TestDeviceResolver_IdentifierWinsOverAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	byIdentifier := activeDevice("fridge-01")
	byAddress := activeDevice("fridge-02")
	repo.EXPECT().GetByIdentifier(gomock.Any(), "fridge-01").Return(byIdentifier, nil)
	repo.EXPECT().GetByIPAddress(gomock.Any(), "10.0.0.5").Return(byAddress, nil)

	resolution := NewDeviceResolver(repo, ResolverOptions{}).Resolve(context.Background(), "fridge-01", "10.0.0.5", "")

	require.True(t, resolution.Resolved())
	assert.Equal(t, byIdentifier.ID, resolution.Device.ID)
	assert.Equal(t, ResolvedByIdentifier, resolution.Via)
}

func TestDeviceResolver_FallsBackToAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	legacy := activeDevice("legacy")
	repo.EXPECT().GetByIdentifier(gomock.Any(), "unknown").Return(nil, device.ErrDeviceNotFound)
	repo.EXPECT().GetByIPAddress(gomock.Any(), "10.0.0.5").Return(legacy, nil)

	resolution := NewDeviceResolver(repo, ResolverOptions{}).Resolve(context.Background(), "unknown", "10.0.0.5", "")

	require.True(t, resolution.Resolved())
	assert.Equal(t, ResolvedByIPAddress, resolution.Via)
}

func TestDeviceResolver_StorageErrorsDegradeToUnresolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().GetByIdentifier(gomock.Any(), "fridge-01").Return(nil, errors.New("connection refused"))
	repo.EXPECT().GetByIPAddress(gomock.Any(), "10.0.0.5").Return(nil, errors.New("connection refused"))

	resolution := NewDeviceResolver(repo, ResolverOptions{AutoRegister: true}).Resolve(context.Background(), "fridge-01", "10.0.0.5", "")

	assert.False(t, resolution.Resolved())
	assert.True(t, resolution.LookupFailed)
	assert.Equal(t, "device lookup failed", resolution.Reason)
}

func TestDeviceResolver_NotFoundIsNotALookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().GetByIdentifier(gomock.Any(), "fridge-01").Return(nil, device.ErrDeviceNotFound)
	repo.EXPECT().GetByIPAddress(gomock.Any(), "10.0.0.5").Return(nil, device.ErrDeviceNotFound)

	resolution := NewDeviceResolver(repo, ResolverOptions{}).Resolve(context.Background(), "fridge-01", "10.0.0.5", "")

	assert.False(t, resolution.Resolved())
	assert.False(t, resolution.LookupFailed)
	assert.Equal(t, "device not registered", resolution.Reason)
}

func TestDeviceResolver_InactiveAndUnassignedDevices(t *testing.T) {
	tests := []struct {
		name   string
		device *device.Device
		reason string
	}{
		{
			name:   "inactive",
			device: &device.Device{ID: uuid.New(), Identifier: "a", FacilityID: ptr(uuid.New())},
			reason: "device is inactive",
		},
		{
			name:   "no facility",
			device: &device.Device{ID: uuid.New(), Identifier: "b", IsActive: true},
			reason: "device is not assigned to a facility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)
			repo.EXPECT().GetByIdentifier(gomock.Any(), tt.device.Identifier).Return(tt.device, nil)

			resolution := NewDeviceResolver(repo, ResolverOptions{}).Resolve(context.Background(), tt.device.Identifier, "", "")

			assert.False(t, resolution.Resolved())
			assert.Equal(t, tt.reason, resolution.Reason)
		})
	}
}

func TestDeviceResolver_TokenCheck(t *testing.T) {
	hash, err := utils.HashToken("s3cret")
	require.NoError(t, err)

	withToken := activeDevice("secured")
	withToken.AuthTokenHash = &hash
	withoutToken := activeDevice("open")

	tests := []struct {
		name         string
		device       *device.Device
		token        string
		requireToken bool
		resolved     bool
	}{
		{name: "matching token", device: withToken, token: "s3cret", resolved: true},
		{name: "wrong token", device: withToken, token: "guess", resolved: false},
		{name: "missing token", device: withToken, token: "", resolved: false},
		{name: "tokenless device allowed", device: withoutToken, resolved: true},
		{name: "tokenless device rejected", device: withoutToken, requireToken: true, resolved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)
			repo.EXPECT().GetByIdentifier(gomock.Any(), tt.device.Identifier).Return(tt.device, nil)

			resolver := NewDeviceResolver(repo, ResolverOptions{RequireToken: tt.requireToken})
			resolution := resolver.Resolve(context.Background(), tt.device.Identifier, "", tt.token)

			assert.Equal(t, tt.resolved, resolution.Resolved())
			if !tt.resolved {
				assert.Equal(t, device.ErrTokenRejected.Error(), resolution.Reason)
			}
		})
	}
}

func TestDeviceResolver_AutoRegistersUnknownIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().GetByIdentifier(gomock.Any(), "new-unit").Return(nil, device.ErrDeviceNotFound)
	repo.EXPECT().GetByIPAddress(gomock.Any(), "10.0.0.9").Return(nil, device.ErrDeviceNotFound)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *device.Device) error {
		assert.Equal(t, "new-unit", d.Identifier)
		assert.False(t, d.IsActive)
		assert.Nil(t, d.FacilityID)
		require.NotNil(t, d.IPAddress)
		assert.Equal(t, "10.0.0.9", *d.IPAddress)
		return nil
	})

	resolution := NewDeviceResolver(repo, ResolverOptions{AutoRegister: true}).Resolve(context.Background(), "new-unit", "10.0.0.9", "")

	assert.False(t, resolution.Resolved())
}

func TestDeviceResolver_AutoRegisterRaceIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().GetByIdentifier(gomock.Any(), "new-unit").Return(nil, device.ErrDeviceNotFound)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(device.ErrDeviceAlreadyExists)

	resolution := NewDeviceResolver(repo, ResolverOptions{AutoRegister: true}).Resolve(context.Background(), "new-unit", "", "")

	assert.False(t, resolution.Resolved())
	assert.Equal(t, "device not registered", resolution.Reason)
}

func TestDeviceResolver_TouchFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	d := activeDevice("fridge-01")
	repo.EXPECT().Touch(gomock.Any(), d.ID, gomock.Any()).Return(errors.New("timeout"))

	resolver := NewDeviceResolver(repo, ResolverOptions{})
	resolver.Touch(d, device.Seen{IPAddress: "10.0.0.5"})
	resolver.Wait()
}

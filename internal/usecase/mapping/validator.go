package mapping

import (
	"context"
	"errors"
	"fmt"

	domainDevice "lab-quality-monitor/internal/domain/device"
	domainMapping "lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/temperature"
	appErrors "lab-quality-monitor/pkg/errors"

	"github.com/google/uuid"
)

// ValidateChannel rejects channels the payload format does not carry.
func ValidateChannel(channel domainMapping.Channel) error {
	if !channel.IsValid() {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			fmt.Sprintf("channel must be one of [%s]", channelNames),
			domainMapping.ErrInvalidChannel,
		)
	}
	return nil
}

// ValidateItemTarget checks that the item exists and, when the device is
// placed, that both sit in the same facility.
func ValidateItemTarget(ctx context.Context, items temperature.ItemRepository, device *domainDevice.Device, itemID uuid.UUID) error {
	item, err := items.GetByID(ctx, itemID)
	if errors.Is(err, temperature.ErrItemNotFound) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Temperature item does not exist", err)
	}
	if err != nil {
		return appErrors.NewAppError(appErrors.CodeInternal, "Temperature item lookup failed", err)
	}

	if device.FacilityID != nil && item.FacilityID != *device.FacilityID {
		return appErrors.NewAppError(appErrors.CodeValidation, "Temperature item belongs to another facility", nil)
	}
	return nil
}

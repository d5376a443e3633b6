package mapping

import (
	"context"
	"errors"

	domainDevice "lab-quality-monitor/internal/domain/device"
	domainMapping "lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/temperature"
	"lab-quality-monitor/internal/logger"
	appErrors "lab-quality-monitor/pkg/errors"
	"lab-quality-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages channel-to-item mappings of sensor devices
type Service struct {
	mappingRepo domainMapping.Repository
	deviceRepo  domainDevice.Repository
	itemRepo    temperature.ItemRepository
}

func NewService(mappingRepo domainMapping.Repository, deviceRepo domainDevice.Repository, itemRepo temperature.ItemRepository) *Service {
	return &Service{
		mappingRepo: mappingRepo,
		deviceRepo:  deviceRepo,
		itemRepo:    itemRepo,
	}
}

func (s *Service) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]MappingResponse, error) {
	if _, err := s.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	mappings, err := s.mappingRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	responses := make([]MappingResponse, len(mappings))
	for i := range mappings {
		responses[i] = *ToMappingResponse(&mappings[i])
	}
	return responses, nil
}

func (s *Service) CreateMapping(ctx context.Context, deviceID uuid.UUID, req *CreateMappingRequest) (*MappingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	channel := domainMapping.Channel(req.Channel)
	if err := ValidateChannel(channel); err != nil {
		return nil, err
	}

	device, err := s.getDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if err := ValidateItemTarget(ctx, s.itemRepo, device, req.ItemID); err != nil {
		return nil, err
	}
	if err := s.ensureItemUnmapped(ctx, deviceID, req.ItemID, uuid.Nil); err != nil {
		return nil, err
	}

	m := &domainMapping.Mapping{
		DeviceID: deviceID,
		Channel:  channel,
		ItemID:   req.ItemID,
	}
	if req.Offset != nil {
		m.Offset = *req.Offset
	}

	if err := s.mappingRepo.Create(ctx, m); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Info("Mapping created",
		zap.String("mapping_id", m.ID.String()),
		zap.String("device_id", deviceID.String()),
		zap.String("channel", string(m.Channel)),
		zap.String("item_id", m.ItemID.String()),
		zap.Float64("offset", m.Offset),
		zap.String("event", "mapping_created"),
	)

	return ToMappingResponse(m), nil
}

func (s *Service) UpdateMapping(ctx context.Context, mappingID uuid.UUID, req *UpdateMappingRequest) (*MappingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	m, err := s.mappingRepo.GetByID(ctx, mappingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if req.Channel != nil {
		channel := domainMapping.Channel(*req.Channel)
		if err := ValidateChannel(channel); err != nil {
			return nil, err
		}
		m.Channel = channel
	}
	if req.ItemID != nil && *req.ItemID != m.ItemID {
		device, err := s.getDevice(ctx, m.DeviceID)
		if err != nil {
			return nil, err
		}
		if err := ValidateItemTarget(ctx, s.itemRepo, device, *req.ItemID); err != nil {
			return nil, err
		}
		if err := s.ensureItemUnmapped(ctx, m.DeviceID, *req.ItemID, m.ID); err != nil {
			return nil, err
		}
		m.ItemID = *req.ItemID
	}
	if req.Offset != nil {
		m.Offset = *req.Offset
	}

	if err := s.mappingRepo.Update(ctx, m); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Info("Mapping updated",
		zap.String("mapping_id", m.ID.String()),
		zap.String("channel", string(m.Channel)),
		zap.Float64("offset", m.Offset),
		zap.String("event", "mapping_updated"),
	)

	return ToMappingResponse(m), nil
}

func (s *Service) DeleteMapping(ctx context.Context, mappingID uuid.UUID) error {
	if err := s.mappingRepo.Delete(ctx, mappingID); err != nil {
		return mapRepositoryError(err)
	}

	logger.Info("Mapping deleted",
		zap.String("mapping_id", mappingID.String()),
		zap.String("event", "mapping_deleted"),
	)
	return nil
}

func (s *Service) getDevice(ctx context.Context, deviceID uuid.UUID) (*domainDevice.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if errors.Is(err, domainDevice.ErrDeviceNotFound) {
		return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Device not found", err)
	}
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInternal, "Device lookup failed", err)
	}
	return device, nil
}

// ensureItemUnmapped rejects a second channel of the same device targeting
// itemID. The unique index on (device_id, item_id) backs this check.
func (s *Service) ensureItemUnmapped(ctx context.Context, deviceID, itemID, exceptID uuid.UUID) error {
	mappings, err := s.mappingRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return mapRepositoryError(err)
	}
	for _, m := range mappings {
		if m.ItemID == itemID && m.ID != exceptID {
			return mapRepositoryError(domainMapping.ErrItemAlreadyMapped)
		}
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, domainMapping.ErrMappingNotFound):
		return appErrors.NewAppError(appErrors.CodeNotFound, "Mapping not found", err)
	case errors.Is(err, domainMapping.ErrMappingAlreadyExists):
		return appErrors.NewAppError(appErrors.CodeConflict, "Channel or item is already mapped on this device", err)
	case errors.Is(err, domainMapping.ErrItemAlreadyMapped):
		return appErrors.NewAppError(appErrors.CodeConflict, "Item is already mapped on this device", err)
	default:
		return appErrors.NewAppError(appErrors.CodeInternal, "Mapping storage failure", err)
	}
}

package device

import (
	"context"
	"errors"
	"math"
	"time"

	domainDevice "lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/logger"
	appErrors "lab-quality-monitor/pkg/errors"
	"lab-quality-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements device administration use cases
type Service struct {
	deviceRepo domainDevice.Repository
}

// NewService creates a new device service
func NewService(deviceRepo domainDevice.Repository) *Service {
	return &Service{deviceRepo: deviceRepo}
}

func (s *Service) CreateDevice(ctx context.Context, req *CreateDeviceRequest) (*DeviceResponse, error) {
	req.Identifier = utils.SanitizeIdentifier(req.Identifier)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	device := &domainDevice.Device{
		Identifier:   req.Identifier,
		IPAddress:    req.IPAddress,
		FacilityID:   req.FacilityID,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		IsActive:     req.FacilityID != nil,
	}
	if req.IsActive != nil {
		device.IsActive = *req.IsActive
	}
	if err := ValidateAssignment(device); err != nil {
		return nil, err
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Info("Device created",
		zap.String("device_id", device.ID.String()),
		zap.String("device_identifier", device.Identifier),
		zap.String("event", "device_created"),
	)

	return ToDeviceResponse(device), nil
}

func (s *Service) GetDevice(ctx context.Context, deviceID uuid.UUID) (*DeviceResponse, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return ToDeviceResponse(device), nil
}

func (s *Service) ListDevices(ctx context.Context, req *DeviceFilterRequest) (*DeviceListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	filter := ToDomainFilter(req)
	devices, total, err := s.deviceRepo.List(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	responses := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = *ToDeviceResponse(d)
	}

	return &DeviceListResponse{
		Devices:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *Service) UpdateDevice(ctx context.Context, deviceID uuid.UUID, req *UpdateDeviceRequest) (*DeviceResponse, error) {
	if req.Identifier != nil {
		sanitized := utils.SanitizeIdentifier(*req.Identifier)
		req.Identifier = &sanitized
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if req.Identifier != nil {
		device.Identifier = *req.Identifier
	}
	if req.IPAddress != nil {
		device.IPAddress = req.IPAddress
	}
	if req.FacilityID != nil {
		device.FacilityID = req.FacilityID
	}
	if req.ClearDepartment {
		device.DepartmentID = nil
	} else if req.DepartmentID != nil {
		device.DepartmentID = req.DepartmentID
	}
	if req.Name != nil {
		device.Name = req.Name
	}
	if req.IsActive != nil {
		device.IsActive = *req.IsActive
	}
	if err := ValidateAssignment(device); err != nil {
		return nil, err
	}

	if err := s.deviceRepo.Update(ctx, device); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Info("Device updated",
		zap.String("device_id", device.ID.String()),
		zap.String("device_identifier", device.Identifier),
		zap.Bool("is_active", device.IsActive),
		zap.String("event", "device_updated"),
	)

	return ToDeviceResponse(device), nil
}

// DeactivateDevice stops a device from recording. Devices are never hard
// deleted so raw log rows keep their reference.
func (s *Service) DeactivateDevice(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.deviceRepo.Deactivate(ctx, deviceID); err != nil {
		return mapRepositoryError(err)
	}

	logger.Info("Device deactivated",
		zap.String("device_id", deviceID.String()),
		zap.String("event", "device_deactivated"),
	)
	return nil
}

// RotateToken issues a new per-device secret and stores only its hash.
func (s *Service) RotateToken(ctx context.Context, deviceID uuid.UUID) (*DeviceTokenResponse, error) {
	if _, err := s.deviceRepo.GetByID(ctx, deviceID); err != nil {
		return nil, mapRepositoryError(err)
	}

	token, err := utils.GenerateDeviceToken()
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInternal, "Failed to generate device token", err)
	}
	hash, err := utils.HashToken(token)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInternal, "Failed to hash device token", err)
	}

	if err := s.deviceRepo.SetAuthTokenHash(ctx, deviceID, &hash); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Info("Device token rotated",
		zap.String("device_id", deviceID.String()),
		zap.Time("rotated_at", time.Now()),
		zap.String("event", "device_token_rotated"),
	)

	return &DeviceTokenResponse{DeviceID: deviceID, Token: token}, nil
}

// RevokeToken removes the device secret; the device then authenticates by
// identifier alone unless tokens are required globally.
func (s *Service) RevokeToken(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.deviceRepo.SetAuthTokenHash(ctx, deviceID, nil); err != nil {
		return mapRepositoryError(err)
	}

	logger.Info("Device token revoked",
		zap.String("device_id", deviceID.String()),
		zap.String("event", "device_token_revoked"),
	)
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, domainDevice.ErrDeviceNotFound):
		return appErrors.NewAppError(appErrors.CodeNotFound, "Device not found", err)
	case errors.Is(err, domainDevice.ErrDeviceAlreadyExists):
		return appErrors.NewAppError(appErrors.CodeConflict, "Device identifier already registered", err)
	default:
		return appErrors.NewAppError(appErrors.CodeInternal, "Device storage failure", err)
	}
}

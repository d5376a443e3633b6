package ingestion

import (
	"context"
	"errors"
	"sync"
	"time"

	"lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/logger"
	"lab-quality-monitor/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const touchTimeout = 3 * time.Second

const (
	ResolvedByIdentifier = "identifier"
	ResolvedByIPAddress  = "ip_address"
)

// Resolution is the outcome of device resolution. Device is nil when the
// transmission could not be attributed; Reason then says why. LookupFailed
// marks an unresolved result caused by storage errors rather than absence.
type Resolution struct {
	Device       *device.Device
	Via          string
	Reason       string
	LookupFailed bool
}

func (r *Resolution) Resolved() bool {
	return r.Device != nil
}

type ResolverOptions struct {
	// RequireToken rejects devices that have no secret configured.
	RequireToken bool
	// AutoRegister records unknown declared identifiers as pending devices.
	AutoRegister bool
}

// DeviceResolver attributes a transmission to a registered device, first by
// declared identifier and then by network origin.
type DeviceResolver struct {
	devices device.Repository
	opts    ResolverOptions
	log     *zap.Logger

	touches sync.WaitGroup
}

func NewDeviceResolver(devices device.Repository, opts ResolverOptions) *DeviceResolver {
	return &DeviceResolver{
		devices: devices,
		opts:    opts,
		log:     logger.Named("device_resolver"),
	}
}

type lookup struct {
	device *device.Device
	err    error
}

// Resolve never returns an error: lookup failures degrade to an unresolved
// result so firmware keeps receiving 2xx responses.
func (r *DeviceResolver) Resolve(ctx context.Context, identifier, remoteAddr, token string) *Resolution {
	var byIdentifier, byAddress lookup

	var g errgroup.Group
	if identifier != "" {
		g.Go(func() error {
			byIdentifier.device, byIdentifier.err = r.devices.GetByIdentifier(ctx, identifier)
			return nil
		})
	}
	if remoteAddr != "" {
		g.Go(func() error {
			byAddress.device, byAddress.err = r.devices.GetByIPAddress(ctx, remoteAddr)
			return nil
		})
	}
	_ = g.Wait()

	r.logLookupError("identifier", identifier, byIdentifier.err)
	r.logLookupError("ip_address", remoteAddr, byAddress.err)

	var (
		candidate *device.Device
		via       string
	)
	switch {
	case byIdentifier.device != nil:
		candidate, via = byIdentifier.device, ResolvedByIdentifier
	case byAddress.device != nil:
		candidate, via = byAddress.device, ResolvedByIPAddress
	default:
		if lookupFailed(byIdentifier.err) || lookupFailed(byAddress.err) {
			return &Resolution{Reason: "device lookup failed", LookupFailed: true}
		}
		if identifier != "" && errors.Is(byIdentifier.err, device.ErrDeviceNotFound) {
			r.register(ctx, identifier, remoteAddr)
		}
		return &Resolution{Reason: "device not registered"}
	}

	if !candidate.IsActive {
		return &Resolution{Via: via, Reason: "device is inactive"}
	}
	if candidate.FacilityID == nil {
		return &Resolution{Via: via, Reason: "device is not assigned to a facility"}
	}
	if !r.acceptToken(candidate, token) {
		r.log.Warn("Device token rejected",
			zap.String("device_identifier", candidate.Identifier),
			zap.String("remote_addr", remoteAddr),
		)
		return &Resolution{Via: via, Reason: device.ErrTokenRejected.Error()}
	}

	return &Resolution{Device: candidate, Via: via}
}

func (r *DeviceResolver) acceptToken(d *device.Device, token string) bool {
	if !d.HasAuthToken() {
		return !r.opts.RequireToken
	}
	return utils.CheckToken(*d.AuthTokenHash, token)
}

func lookupFailed(err error) bool {
	return err != nil && !errors.Is(err, device.ErrDeviceNotFound)
}

func (r *DeviceResolver) logLookupError(by, value string, err error) {
	if !lookupFailed(err) {
		return
	}
	r.log.Error("Device lookup failed",
		zap.String("by", by),
		zap.String("value", value),
		zap.String("step", "resolve_device"),
		zap.Error(err),
	)
}

// register creates an inactive placeholder for an unknown identifier so an
// administrator can later assign it to a facility.
func (r *DeviceResolver) register(ctx context.Context, identifier, remoteAddr string) {
	if !r.opts.AutoRegister {
		return
	}

	pending := &device.Device{
		Identifier: identifier,
		IsActive:   false,
	}
	if remoteAddr != "" {
		pending.IPAddress = &remoteAddr
	}

	err := r.devices.Create(ctx, pending)
	switch {
	case err == nil:
		r.log.Info("Registered pending device",
			zap.String("device_identifier", identifier),
			zap.String("remote_addr", remoteAddr),
		)
	case errors.Is(err, device.ErrDeviceAlreadyExists):
		// another transmission registered it first
	default:
		r.log.Warn("Failed to register pending device",
			zap.String("device_identifier", identifier),
			zap.Error(err),
		)
	}
}

// Touch records last-seen data in the background. Its failure is logged and
// never reaches the caller.
func (r *DeviceResolver) Touch(d *device.Device, seen device.Seen) {
	r.touches.Add(1)
	go func() {
		defer r.touches.Done()

		ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()

		if err := r.devices.Touch(ctx, d.ID, seen); err != nil {
			r.log.Warn("Failed to update device last seen",
				zap.String("device_id", d.ID.String()),
				zap.String("device_identifier", d.Identifier),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every pending Touch has finished.
func (r *DeviceResolver) Wait() {
	r.touches.Wait()
}

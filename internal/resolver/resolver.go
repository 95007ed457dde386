// Package resolver merges stored settings into a live client configuration.
//
// Values already present on the configuration come from the command line and
// always win. Stored values fill the gaps, and compiled-in defaults fill what
// is left. Resolve computes the decisions without side effects; Apply writes
// them onto the configuration.
package resolver

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stwalsh4118/sheepit-settings/internal/logger"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
	"github.com/stwalsh4118/sheepit-settings/internal/store"
)

// Field names used in logs and FieldErrors
const (
	fieldComputeMethod    = "compute-method"
	fieldGPU              = "compute-gpu"
	fieldRenderBucketSize = "renderbucket-size"
	fieldRAM              = "ram"
)

// Resolver applies stored settings to client configurations
type Resolver struct {
	devices models.DeviceLookup
}

// New creates a resolver. devices may be nil, in which case stored GPU ids
// never resolve.
func New(devices models.DeviceLookup) *Resolver {
	return &Resolver{devices: devices}
}

// Merge loads the store, resolves it against cfg and applies the result
func (r *Resolver) Merge(s store.Store, cfg *models.ClientConfig) (*Resolution, error) {
	res, err := r.Resolve(s.Load(), cfg)
	if err != nil {
		return nil, err
	}
	res.Apply(cfg)
	return res, nil
}

// Resolve decides which configuration fields take their value from snap or
// from a default. cfg is only read. A nil snap behaves like an empty file.
func (r *Resolver) Resolve(snap *models.Snapshot, cfg *models.ClientConfig) (*Resolution, error) {
	if cfg == nil {
		logger.Log.Error().Msg("Cannot merge settings into a nil client configuration")
		return nil, ErrNilConfiguration
	}
	if snap == nil {
		snap = models.NewSnapshot()
	}

	res := &Resolution{ID: uuid.New().String()}
	log := logger.Log.With().Str("resolution_id", res.ID).Logger()

	if cfg.Login == "" && snap.Login != nil {
		res.Login = snap.Login
	}
	if cfg.Password == "" && snap.Password != nil {
		res.Password = snap.Password
	}
	if cfg.Proxy == "" && snap.Proxy != nil {
		res.Proxy = snap.Proxy
	}
	// a hostname still at the compiled-in default counts as unset
	if (cfg.Hostname == "" || cfg.Hostname == models.DefaultHostname) && snap.Hostname != nil {
		res.Hostname = snap.Hostname
	}

	if cfg.Priority == models.DefaultPriority {
		res.Priority = models.Ptr(snap.Priority)
	}

	r.resolveComputeMethod(res, snap, cfg, log)
	r.resolveGPU(res, snap, cfg, log)

	if cfg.Cores == models.Unset && snap.Cores != nil {
		res.Cores = snap.Cores
	}
	if cfg.MaxMemory == models.Unset && snap.RAM != nil {
		kb, err := models.ParseMemoryKB(*snap.RAM)
		if err != nil {
			res.fieldError(log, fieldRAM, *snap.RAM, err)
		} else {
			res.MaxMemory = &kb
		}
	}
	if cfg.MaxRenderTime == models.Unset && snap.RenderTime != nil {
		res.MaxRenderTime = snap.RenderTime
	}

	if !cfg.UserSpecifiedCacheDir && snap.CacheDir != nil {
		res.CacheDir = snap.CacheDir
	}
	if cfg.UIType == "" && snap.UI != nil {
		res.UIType = snap.UI
	}

	if cfg.Theme == "" {
		if snap.Theme != nil {
			res.Theme = snap.Theme
		} else {
			res.Theme = models.Ptr(models.DefaultTheme)
		}
	}

	// the tray can only be switched off here, never back on
	if !cfg.UseSysTray || (snap.UseSysTray != nil && !*snap.UseSysTray) {
		res.UseSysTray = models.Ptr(false)
	}

	res.AutoSignIn = snap.AutoSignIn != nil && *snap.AutoSignIn

	log.Debug().
		Object("settings", snap).
		Int("field_errors", len(res.Errors)).
		Msg("Resolved settings")

	return res, nil
}

func (r *Resolver) resolveComputeMethod(res *Resolution, snap *models.Snapshot, cfg *models.ClientConfig, log zerolog.Logger) {
	stored, ok, err := snap.ComputeMethodValue()
	if err != nil {
		res.fieldError(log, fieldComputeMethod, *snap.ComputeMethod, err)
	}
	if cfg.ComputeMethod != "" {
		return
	}
	method := models.ComputeCPU
	if ok {
		method = stored
	}
	res.ComputeMethod = &method
}

// resolveGPU picks the device and its bucket size. The bucket size comes
// from the configuration when it meets the minimum, then from the file, then
// from the device: its current size for a newly adopted device, its
// recommended size for one already selected.
func (r *Resolver) resolveGPU(res *Resolution, snap *models.Snapshot, cfg *models.ClientConfig, log zerolog.Logger) {
	stored := r.storedBucketSize(res, snap, log)

	switch {
	case cfg.GPUDevice == nil && snap.GPUID != nil:
		device, err := r.lookup(*snap.GPUID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("gpu", *snap.GPUID).
				Msg("Stored GPU is not available")
			return
		}
		size := device.RenderBucketSize()
		if cfg.RenderBucketSize >= models.MinRenderBucketSize {
			size = cfg.RenderBucketSize
		} else if stored != nil {
			size = *stored
		}
		res.GPU = &GPUSelection{Device: device, RenderBucketSize: size, Adopted: true}

	case cfg.GPUDevice != nil:
		size := cfg.GPUDevice.RecommendedBucketSize()
		if cfg.RenderBucketSize >= models.MinRenderBucketSize {
			size = cfg.RenderBucketSize
		} else if stored != nil {
			size = *stored
		}
		res.GPU = &GPUSelection{Device: cfg.GPUDevice, RenderBucketSize: size}
	}
}

func (r *Resolver) storedBucketSize(res *Resolution, snap *models.Snapshot, log zerolog.Logger) *int {
	if snap.RenderBucketSize == nil {
		return nil
	}
	if *snap.RenderBucketSize < models.MinRenderBucketSize {
		res.fieldError(log, fieldRenderBucketSize, strconv.Itoa(*snap.RenderBucketSize),
			fmt.Errorf("below minimum of %d", models.MinRenderBucketSize))
		return nil
	}
	return snap.RenderBucketSize
}

func (r *Resolver) lookup(id string) (models.Device, error) {
	if r.devices == nil {
		return nil, fmt.Errorf("%w: %s (no device lookup configured)", models.ErrDeviceNotFound, id)
	}
	device, err := r.devices.Lookup(id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, id)
	}
	return device, nil
}

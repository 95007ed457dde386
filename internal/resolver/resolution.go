package resolver

import (
	"github.com/rs/zerolog"

	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

// Resolution is the outcome of merging a snapshot into a configuration.
// A nil field leaves the configuration value untouched.
type Resolution struct {
	// ID correlates the log lines of one resolution.
	ID string

	Login    *string
	Password *string
	Proxy    *string
	Hostname *string
	CacheDir *string
	UIType   *string
	Theme    *string
	Priority *int

	ComputeMethod *models.ComputeMethod
	GPU           *GPUSelection

	Cores         *int
	MaxMemory     *int64
	MaxRenderTime *int

	UseSysTray *bool
	// AutoSignIn is always applied.
	AutoSignIn bool

	// Errors lists stored values that were ignored.
	Errors []*FieldError
}

// GPUSelection is the device to render with and its bucket size
type GPUSelection struct {
	Device           models.Device
	RenderBucketSize int
	// Adopted is true when the device came from the settings file. Only then
	// is the configuration's device and bucket size replaced.
	Adopted bool
}

// Apply writes the resolution onto cfg
func (res *Resolution) Apply(cfg *models.ClientConfig) {
	if res == nil || cfg == nil {
		return
	}

	applyString(&cfg.Login, res.Login)
	applyString(&cfg.Password, res.Password)
	applyString(&cfg.Proxy, res.Proxy)
	applyString(&cfg.Hostname, res.Hostname)
	applyString(&cfg.UIType, res.UIType)
	applyString(&cfg.Theme, res.Theme)
	if res.CacheDir != nil {
		cfg.CacheDir = *res.CacheDir
	}
	if res.Priority != nil {
		cfg.Priority = *res.Priority
	}
	if res.ComputeMethod != nil {
		cfg.ComputeMethod = *res.ComputeMethod
	}

	if res.GPU != nil {
		if res.GPU.Adopted {
			cfg.GPUDevice = res.GPU.Device
		}
		res.GPU.Device.SetRenderBucketSize(res.GPU.RenderBucketSize)
		if res.GPU.Adopted {
			cfg.RenderBucketSize = res.GPU.Device.RenderBucketSize()
		}
	}

	if res.Cores != nil {
		cfg.Cores = *res.Cores
	}
	if res.MaxMemory != nil {
		cfg.MaxMemory = *res.MaxMemory
	}
	if res.MaxRenderTime != nil {
		cfg.MaxRenderTime = *res.MaxRenderTime
	}
	if res.UseSysTray != nil {
		cfg.UseSysTray = *res.UseSysTray
	}
	cfg.AutoSignIn = res.AutoSignIn
}

func (res *Resolution) fieldError(log zerolog.Logger, field, value string, cause error) {
	err := &FieldError{Field: field, Value: value, Cause: cause}
	res.Errors = append(res.Errors, err)
	log.Error().
		Err(cause).
		Str("field", field).
		Str("value", value).
		Msg("Ignoring stored setting")
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

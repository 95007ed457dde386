package models

import (
	"strconv"
)

// Snapshot is the in-memory form of the settings file.
// Every field except Priority is optional; a nil pointer means the key was
// absent. Values are kept as persisted, so RAM and ComputeMethod stay raw
// strings until the resolver parses them.
type Snapshot struct {
	Login    *string
	Password *string
	Proxy    *string
	Hostname *string

	ComputeMethod    *string
	GPUID            *string
	RenderBucketSize *int
	Cores            *int
	RAM              *string
	RenderTime       *int

	CacheDir   *string
	AutoSignIn *bool
	UseSysTray *bool
	UI         *string
	Theme      *string

	Priority int

	// Extra holds keys this client does not recognize, written back on save.
	Extra map[string]string
}

// NewSnapshot returns a snapshot with every field absent
func NewSnapshot() *Snapshot {
	return &Snapshot{Priority: DefaultPriority}
}

// SnapshotFromConfig captures the persistable part of a live client
// configuration. Unset numeric fields, an unset compute method, a missing GPU
// and a bucket size below the minimum are left absent.
func SnapshotFromConfig(cfg *ClientConfig) *Snapshot {
	snap := NewSnapshot()
	if cfg == nil {
		return snap
	}

	snap.Login = nonEmpty(cfg.Login)
	snap.Password = nonEmpty(cfg.Password)
	snap.Proxy = nonEmpty(cfg.Proxy)
	snap.Hostname = nonEmpty(cfg.Hostname)
	snap.CacheDir = nonEmpty(cfg.CacheDir)
	snap.UI = nonEmpty(cfg.UIType)
	snap.Theme = nonEmpty(cfg.Theme)
	snap.AutoSignIn = Ptr(cfg.AutoSignIn)
	snap.UseSysTray = Ptr(cfg.UseSysTray)
	snap.Priority = cfg.Priority

	if cfg.Cores > 0 {
		snap.Cores = Ptr(cfg.Cores)
	}
	if cfg.MaxMemory > 0 {
		snap.RAM = Ptr(FormatMemoryKB(cfg.MaxMemory))
	}
	if cfg.MaxRenderTime > 0 {
		snap.RenderTime = Ptr(cfg.MaxRenderTime)
	}
	if cfg.ComputeMethod.IsValid() {
		snap.ComputeMethod = Ptr(cfg.ComputeMethod.String())
	}
	if cfg.GPUDevice != nil {
		snap.GPUID = Ptr(cfg.GPUDevice.ID())
	}
	if cfg.RenderBucketSize >= MinRenderBucketSize {
		snap.RenderBucketSize = Ptr(cfg.RenderBucketSize)
	}

	return snap
}

// ComputeMethodValue parses the stored compute method.
// It returns ok=false with a nil error when the field is absent.
func (s *Snapshot) ComputeMethodValue() (method ComputeMethod, ok bool, err error) {
	if s.ComputeMethod == nil {
		return "", false, nil
	}
	method, err = ParseComputeMethod(*s.ComputeMethod)
	if err != nil {
		return "", false, err
	}
	return method, true, nil
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalString(s *string) string {
	if s == nil {
		return "(not set)"
	}
	return *s
}

func optionalInt(v *int) string {
	if v == nil {
		return "(not set)"
	}
	return strconv.Itoa(*v)
}

func optionalBool(v *bool) string {
	if v == nil {
		return "(not set)"
	}
	return strconv.FormatBool(*v)
}

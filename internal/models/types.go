package models

import (
	"errors"
	"fmt"
)

// Shared defaults. The settings snapshot and the client configuration must
// agree on these values because the resolver compares against them.
const (
	// DefaultPriority is the process priority a client starts with. The
	// resolver treats a configuration still at this value as not overridden.
	DefaultPriority = 19

	// MinRenderBucketSize is the smallest accepted GPU render bucket size in pixels.
	MinRenderBucketSize = 32

	// DefaultTheme is used when neither the configuration nor the settings name one.
	DefaultTheme = "light"

	// DefaultHostname is the compiled-in render farm server.
	DefaultHostname = "https://client.sheepit-renderfarm.com/"

	// Unset marks numeric client configuration fields that have no value.
	Unset = -1
)

// ComputeMethod selects which devices render jobs
type ComputeMethod string

// Compute method constants
const (
	ComputeCPU    ComputeMethod = "CPU"
	ComputeGPU    ComputeMethod = "GPU"
	ComputeCPUGPU ComputeMethod = "CPU_GPU"
)

// ErrInvalidComputeMethod is returned when a stored compute method is not recognized
var ErrInvalidComputeMethod = errors.New("invalid compute method")

// String returns the string representation of the compute method
func (m ComputeMethod) String() string {
	return string(m)
}

// IsValid checks if the compute method is a known valid value
func (m ComputeMethod) IsValid() bool {
	switch m {
	case ComputeCPU, ComputeGPU, ComputeCPUGPU:
		return true
	default:
		return false
	}
}

// UsesGPU reports whether jobs may be scheduled on a GPU
func (m ComputeMethod) UsesGPU() bool {
	return m == ComputeGPU || m == ComputeCPUGPU
}

// ParseComputeMethod converts a stored value into a ComputeMethod.
// Matching is exact, the file stores the constant names.
func ParseComputeMethod(raw string) (ComputeMethod, error) {
	m := ComputeMethod(raw)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidComputeMethod, raw)
	}
	return m, nil
}

// IsInvalidComputeMethod checks if the error is an invalid compute method error
func IsInvalidComputeMethod(err error) bool {
	return errors.Is(err, ErrInvalidComputeMethod)
}

package models

import "errors"

// ErrDeviceNotFound is returned by a DeviceLookup when no device carries the id
var ErrDeviceNotFound = errors.New("gpu device not found")

// Device is a GPU that can render jobs.
type Device interface {
	// ID is the stable identifier stored in the settings file.
	ID() string
	// Model is a human readable device name.
	Model() string
	RenderBucketSize() int
	SetRenderBucketSize(size int)
	// RecommendedBucketSize is the device's own preferred bucket size.
	RecommendedBucketSize() int
}

// DeviceLookup resolves a stored GPU identifier to a device.
type DeviceLookup interface {
	Lookup(id string) (Device, error)
}

// IsDeviceNotFound checks if the error is a device not found error
func IsDeviceNotFound(err error) bool {
	return errors.Is(err, ErrDeviceNotFound)
}

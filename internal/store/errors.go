package store

import "errors"

// Custom store errors
var (
	// ErrNilSnapshot indicates Save was called without a snapshot
	ErrNilSnapshot = errors.New("settings snapshot is nil")

	// ErrPermissionsUnsupported indicates the platform cannot restrict file access to the owner
	ErrPermissionsUnsupported = errors.New("owner-only file permissions not supported on this platform")
)

// IsNilSnapshot checks if the error is a nil snapshot error
func IsNilSnapshot(err error) bool {
	return errors.Is(err, ErrNilSnapshot)
}

// IsPermissionsUnsupported checks if the error is an unsupported permissions error
func IsPermissionsUnsupported(err error) bool {
	return errors.Is(err, ErrPermissionsUnsupported)
}

//go:build windows

package store

// restrictToOwner is not available on Windows, where os.Chmod only toggles
// the read-only attribute.
func restrictToOwner(path string) error {
	return ErrPermissionsUnsupported
}

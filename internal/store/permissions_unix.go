//go:build !windows

package store

import (
	"fmt"
	"os"
)

// restrictToOwner limits the file to owner read/write
func restrictToOwner(path string) error {
	if err := os.Chmod(path, ownerReadWrite); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return nil
}

// Package store persists client settings to a flat key=value file.
//
// The file is stored in plain text, credentials included. Callers depend on
// the Store interface so an encrypting implementation can replace FileStore
// without touching the resolver.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/magiconair/properties"

	"github.com/stwalsh4118/sheepit-settings/internal/logger"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

const (
	// DefaultFileName is the settings file name inside the user's home directory
	DefaultFileName = ".sheepit.conf"

	ownerReadWrite fs.FileMode = 0o600
	fileHeader                 = "SheepIt render farm client settings"
)

// Store loads and saves settings snapshots
type Store interface {
	// Load never fails; missing or unreadable files yield an empty snapshot.
	Load() *models.Snapshot
	Save(snap *models.Snapshot) error
	Path() string
}

// FileStore keeps settings in a properties file on the local disk
type FileStore struct {
	path string
}

// NewFileStore creates a store for path, or for DefaultPath when path is empty
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// DefaultPath returns <user-home>/.sheepit.conf
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("Cannot determine home directory, using working directory for settings")
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// Path returns the settings file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file gives an empty snapshot. An
// unreadable file is logged and gives an empty snapshot, and a malformed file
// is logged and gives the entries parsed before the first bad line.
func (s *FileStore) Load() *models.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Log.Debug().
				Str("path", s.path).
				Msg("No settings file, using defaults")
		} else {
			logger.Log.Error().
				Err(err).
				Str("path", s.path).
				Msg("Failed to read settings file")
		}
		return models.NewSnapshot()
	}

	props := parse(s.path, data)
	snap := decode(props)

	logger.Log.Debug().
		Str("path", s.path).
		Object("settings", snap).
		Msg("Loaded settings")

	return snap
}

// Save rewrites the settings file with every present field and restricts it
// to the owner. Failing to restrict permissions is logged, not returned.
func (s *FileStore) Save(snap *models.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}

	props := encode(snap)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, ownerReadWrite)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("path", s.path).
			Msg("Failed to open settings file for writing")
		return fmt.Errorf("failed to open settings file: %w", err)
	}

	header := fmt.Sprintf("# %s\n# %s\n", fileHeader, time.Now().UTC().Format(time.RFC1123))
	_, err = f.WriteString(header)
	if err == nil {
		_, err = props.Write(f, properties.UTF8)
	}
	if err != nil {
		_ = f.Close()
		logger.Log.Error().
			Err(err).
			Str("path", s.path).
			Msg("Failed to write settings file")
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := f.Close(); err != nil {
		logger.Log.Error().
			Err(err).
			Str("path", s.path).
			Msg("Failed to close settings file")
		return fmt.Errorf("failed to close settings file: %w", err)
	}

	if err := restrictToOwner(s.path); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", s.path).
			Msg("Could not restrict settings file to owner")
	}

	logger.Log.Debug().
		Str("path", s.path).
		Object("settings", snap).
		Msg("Saved settings")

	return nil
}

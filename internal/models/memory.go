package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// ErrInvalidMemory is returned when a RAM value cannot be parsed
var ErrInvalidMemory = errors.New("invalid memory value")

// memoryUnitSuffix is appended to the kilobyte count when RAM is persisted.
const memoryUnitSuffix = "k"

// ParseMemoryKB parses a magnitude with an optional decimal unit suffix
// ("4096000k", "4g", "512M", "1.5 GB") and returns kilobytes.
// Units are powers of 1000, a bare number is a byte count.
func ParseMemoryKB(raw string) (int64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidMemory)
	}

	bytes, err := units.FromHumanSize(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMemory, raw, err)
	}
	if bytes < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidMemory, raw)
	}

	return bytes / units.KB, nil
}

// FormatMemoryKB renders a kilobyte count the way the settings file stores it
func FormatMemoryKB(kb int64) string {
	return strconv.FormatInt(kb, 10) + memoryUnitSuffix
}

// IsInvalidMemory checks if the error is an invalid memory error
func IsInvalidMemory(err error) bool {
	return errors.Is(err, ErrInvalidMemory)
}

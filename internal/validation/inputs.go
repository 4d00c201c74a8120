// Package validation provides input validation for the downloader.
//
// All checks here run before any network call: a run that fails validation
// never touches the API.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashajkofci/bactocloud-downloader/internal/models"
)

var (
	ErrEmptyAPIKey      = errors.New("API key is empty")
	ErrNoDeviceSelected = errors.New("no device selected")
	ErrEmptyDateRange   = errors.New("start and end date are the same")
	ErrInvertedRange    = errors.New("start date is after end date")
)

// APIKey checks that an API key is present.
func APIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyAPIKey
	}
	return nil
}

// DateRange enforces start < end at day granularity. Equal or inverted
// ranges are rejected before any network call is made.
func DateRange(rng models.DateRange) error {
	start := dateOnly(rng.Start)
	end := dateOnly(rng.End)
	if start.Equal(end) {
		return ErrEmptyDateRange
	}
	if start.After(end) {
		return ErrInvertedRange
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeviceSelection checks that at least one device was selected.
func DeviceSelection(devices []models.Device) error {
	if len(devices) == 0 {
		return ErrNoDeviceSelected
	}
	return nil
}

// DeviceSerial validates a serial number before it is used as a directory
// component. Serials come from the API, an external source, so path
// separators and traversal components are rejected.
func DeviceSerial(serial string) error {
	if serial == "" {
		return fmt.Errorf("device serial cannot be empty")
	}
	if strings.ContainsRune(serial, 0) {
		return fmt.Errorf("device serial contains null byte: %s", serial)
	}
	if strings.ContainsRune(serial, '/') || strings.ContainsRune(serial, '\\') {
		return fmt.Errorf("device serial cannot contain path separators: %s", serial)
	}
	if serial == ".." || serial == "." {
		return fmt.Errorf("device serial cannot be a relative path component: %s", serial)
	}
	return nil
}

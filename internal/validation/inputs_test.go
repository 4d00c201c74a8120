package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/ashajkofci/bactocloud-downloader/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAPIKey(t *testing.T) {
	if err := APIKey("abc123"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := APIKey(""); !errors.Is(err, ErrEmptyAPIKey) {
		t.Errorf("empty key should return ErrEmptyAPIKey, got %v", err)
	}
	if err := APIKey("   "); !errors.Is(err, ErrEmptyAPIKey) {
		t.Errorf("whitespace key should return ErrEmptyAPIKey, got %v", err)
	}
}

func TestDateRange(t *testing.T) {
	tests := []struct {
		name    string
		rng     models.DateRange
		wantErr error
	}{
		{"valid", models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 15)}, nil},
		{"equal", models.DateRange{Start: day(2024, 1, 15), End: day(2024, 1, 15)}, ErrEmptyDateRange},
		{"inverted", models.DateRange{Start: day(2024, 2, 1), End: day(2024, 1, 1)}, ErrInvertedRange},
		{"same day different hours", models.DateRange{
			Start: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC),
		}, ErrEmptyDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DateRange(tt.rng)
			if tt.wantErr == nil && err != nil {
				t.Errorf("DateRange() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("DateRange() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeviceSelection(t *testing.T) {
	if err := DeviceSelection(nil); !errors.Is(err, ErrNoDeviceSelected) {
		t.Errorf("empty selection should return ErrNoDeviceSelected, got %v", err)
	}
	if err := DeviceSelection([]models.Device{{ID: "1"}}); err != nil {
		t.Errorf("non-empty selection rejected: %v", err)
	}
}

func TestDeviceSerial(t *testing.T) {
	valid := []string{"SN001", "sn-001_a", "12345"}
	for _, s := range valid {
		if err := DeviceSerial(s); err != nil {
			t.Errorf("valid serial %q rejected: %v", s, err)
		}
	}

	invalid := []string{"", "a/b", `a\b`, "..", ".", "a\x00b"}
	for _, s := range invalid {
		if err := DeviceSerial(s); err == nil {
			t.Errorf("invalid serial %q accepted", s)
		}
	}
}

package sanitize

import "testing"

func TestFolderName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"special characters stripped", "Test / Measurement: With Special * Characters?", "Test  Measurement With Special  Characters"},
		{"only symbols", "!@#$%^&*()", "unnamed"},
		{"empty", "", "unnamed"},
		{"whitespace only", "   ", "unnamed"},
		{"already safe", "Morning_Run-3", "Morning_Run-3"},
		{"surrounding whitespace trimmed", "  sample 12  ", "sample 12"},
		{"path traversal", "../../etc/passwd", "etcpasswd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FolderName(tt.input); got != tt.want {
				t.Errorf("FolderName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFolderNameIdempotent(t *testing.T) {
	inputs := []string{
		"Test / Measurement: With Special * Characters?",
		"!@#$%^&*()",
		"plain name",
		"  spaced  ",
	}
	for _, in := range inputs {
		once := FolderName(in)
		twice := FolderName(once)
		if once != twice {
			t.Errorf("FolderName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"utc zulu", "2024-01-15T10:30:00Z", "2024-01-15_10-30-00"},
		{"with offset", "2024-01-15T10:30:00+02:00", "2024-01-15_10-30-00"},
		{"unparsable", "not-a-timestamp", "unknown_date"},
		{"empty", "", "unknown_date"},
		{"date only", "2024-01-15", "unknown_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.input); got != tt.want {
				t.Errorf("Timestamp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestDevicesCommandRendersLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"_id": "1", "serial_number": "SN001", "name": "Lab Unit"},
			{"_id": "2"}
		]`)
	}))
	defer server.Close()

	prevURL, prevKey, prevCfg := apiBaseURL, apiKey, cfgFile
	apiBaseURL = server.URL
	apiKey = "test-key"
	cfgFile = filepath.Join(t.TempDir(), "config.json")
	defer func() { apiBaseURL, apiKey, cfgFile = prevURL, prevKey, prevCfg }()

	cmd := newDevicesCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("devices command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SN001 - Lab Unit") {
		t.Errorf("expected labeled listing, got:\n%s", out)
	}
	// Missing serial and name fall back to the placeholder label.
	if !strings.Contains(out, "Unknown - Unnamed") {
		t.Errorf("expected placeholder label for bare device, got:\n%s", out)
	}
}

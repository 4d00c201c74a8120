package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.APIKey != "" {
		t.Errorf("expected empty default APIKey, got %q", cfg.APIKey)
	}
	if cfg.OutputDir == "" {
		t.Error("expected non-empty default OutputDir")
	}
	if filepath.Base(cfg.OutputDir) != "downloads" {
		t.Errorf("expected default OutputDir to end in downloads, got %s", cfg.OutputDir)
	}
	if !cfg.BucketAuto || !cfg.BucketManual || !cfg.BucketMonitoring {
		t.Error("expected all buckets enabled by default")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	cfg := &Config{
		APIKey:           "test-api-key-12345",
		OutputDir:        "/tmp/bactocloud",
		BucketAuto:       true,
		BucketManual:     false,
		BucketMonitoring: true,
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.APIKey != cfg.APIKey {
		t.Errorf("APIKey mismatch: expected %s, got %s", cfg.APIKey, loaded.APIKey)
	}
	if loaded.OutputDir != cfg.OutputDir {
		t.Errorf("OutputDir mismatch: expected %s, got %s", cfg.OutputDir, loaded.OutputDir)
	}
	if loaded.BucketAuto != cfg.BucketAuto {
		t.Errorf("BucketAuto mismatch: expected %v, got %v", cfg.BucketAuto, loaded.BucketAuto)
	}
	if loaded.BucketManual != cfg.BucketManual {
		t.Errorf("BucketManual mismatch: expected %v, got %v", cfg.BucketManual, loaded.BucketManual)
	}
	if loaded.BucketMonitoring != cfg.BucketMonitoring {
		t.Errorf("BucketMonitoring mismatch: expected %v, got %v", cfg.BucketMonitoring, loaded.BucketMonitoring)
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	configPath := filepath.Join(t.TempDir(), "config.json")
	cfg := New()
	cfg.APIKey = "secret"

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	// The file holds the API key; it must stay owner-only.
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("config file mode = %o, want no group/other access", perm)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load should not fail for non-existent file: %v", err)
	}
	if cfg.APIKey != "" {
		t.Error("expected default APIKey for non-existent file")
	}
	if !cfg.BucketAuto {
		t.Error("expected default BucketAuto=true for non-existent file")
	}
}

func TestLoadWrongTypedFieldsKeepDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// api_key is an integer, output_dir is an array, bucket_manual is a
	// string. Each bad field falls back to its default independently.
	raw := `{
		"api_key": 12345,
		"output_dir": ["not", "a", "string"],
		"bucket_auto": false,
		"bucket_manual": "yes",
		"bucket_monitoring": false
	}`
	if err := os.WriteFile(configPath, []byte(raw), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load should tolerate wrong-typed fields: %v", err)
	}

	if cfg.APIKey != "" {
		t.Errorf("wrong-typed api_key should keep default, got %q", cfg.APIKey)
	}
	if filepath.Base(cfg.OutputDir) != "downloads" {
		t.Errorf("wrong-typed output_dir should keep default, got %s", cfg.OutputDir)
	}
	if cfg.BucketAuto {
		t.Error("valid bucket_auto=false should be applied")
	}
	if !cfg.BucketManual {
		t.Error("wrong-typed bucket_manual should keep default true")
	}
	if cfg.BucketMonitoring {
		t.Error("valid bucket_monitoring=false should be applied")
	}
}

func TestLoadMalformedJSONErrors(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load should fail for malformed JSON")
	}
}

func TestBucketsRoundTrip(t *testing.T) {
	cfg := New()
	sel := cfg.Buckets()
	if !sel.Auto || !sel.Manual || !sel.Monitoring {
		t.Error("Buckets should reflect config toggles")
	}

	sel.Manual = false
	cfg.SetBuckets(sel)
	if cfg.BucketManual {
		t.Error("SetBuckets should update config toggles")
	}
}

// Package config provides the persisted settings store for the downloader.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashajkofci/bactocloud-downloader/internal/models"
)

// DefaultBaseURL is the fixed BactoCloud API endpoint.
const DefaultBaseURL = "https://api.bactocloud.com"

// Config is the settings contract between runs, persisted as a small JSON
// object at a platform-specific location.
//
// File format:
//
//	{
//	  "api_key": "…",
//	  "output_dir": "/home/user/downloads",
//	  "bucket_auto": true,
//	  "bucket_manual": true,
//	  "bucket_monitoring": false
//	}
type Config struct {
	APIKey           string `json:"api_key"`
	OutputDir        string `json:"output_dir"`
	BucketAuto       bool   `json:"bucket_auto"`
	BucketManual     bool   `json:"bucket_manual"`
	BucketMonitoring bool   `json:"bucket_monitoring"`
}

// New returns a Config with default values: empty key, a "downloads" folder
// under the working directory, and all buckets enabled.
func New() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Config{
		OutputDir:        filepath.Join(wd, "downloads"),
		BucketAuto:       true,
		BucketManual:     true,
		BucketMonitoring: true,
	}
}

// Buckets returns the bucket selection stored in the config.
func (c *Config) Buckets() models.BucketSelection {
	return models.BucketSelection{
		Auto:       c.BucketAuto,
		Manual:     c.BucketManual,
		Monitoring: c.BucketMonitoring,
	}
}

// SetBuckets stores a bucket selection in the config.
func (c *Config) SetBuckets(sel models.BucketSelection) {
	c.BucketAuto = sel.Auto
	c.BucketManual = sel.Manual
	c.BucketMonitoring = sel.Monitoring
}

// Load reads configuration from path. A missing file returns defaults with no
// error. Fields are validated independently: a field with the wrong JSON type
// keeps its default value rather than failing the whole load.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	decodeString(fields["api_key"], &cfg.APIKey)
	decodeString(fields["output_dir"], &cfg.OutputDir)
	decodeBool(fields["bucket_auto"], &cfg.BucketAuto)
	decodeBool(fields["bucket_manual"], &cfg.BucketManual)
	decodeBool(fields["bucket_monitoring"], &cfg.BucketMonitoring)

	return cfg, nil
}

// decodeString assigns raw to dst only if raw is a JSON string.
func decodeString(raw json.RawMessage, dst *string) {
	if raw == nil {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*dst = s
	}
}

// decodeBool assigns raw to dst only if raw is a JSON boolean.
func decodeBool(raw json.RawMessage, dst *bool) {
	if raw == nil {
		return
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		*dst = b
	}
}

// Save writes the configuration to path as indented JSON, creating parent
// directories as needed. Uses a temp file and atomic rename; the API key is
// sensitive, so the file is restricted to the owner on Unix.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

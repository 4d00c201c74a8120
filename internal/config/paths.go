package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultPath returns the platform-specific location of the settings file.
//
// Locations:
//   - Windows: %APPDATA%\BactoCloudDownloader\config.json
//   - macOS: ~/Library/Application Support/BactoCloudDownloader/config.json
//   - Linux/other: ~/.config/bactocloud-downloader/config.json
func DefaultPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "BactoCloudDownloader", "config.json"), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "BactoCloudDownloader", "config.json"), nil

	default:
		configDir, err := os.UserConfigDir()
		if err != nil {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return "", fmt.Errorf("failed to get config directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
		return filepath.Join(configDir, "bactocloud-downloader", "config.json"), nil
	}
}

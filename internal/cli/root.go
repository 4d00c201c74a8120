// Package cli provides the command-line interface for the BactoCloud
// downloader.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ashajkofci/bactocloud-downloader/internal/config"
	"github.com/ashajkofci/bactocloud-downloader/internal/logging"
	"github.com/ashajkofci/bactocloud-downloader/internal/version"
)

var (
	// Global flags
	cfgFile    string
	apiKey     string
	apiBaseURL string
	outputDir  string
	verbose    bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bactocloud",
		Short: "BactoCloud Downloader - fetch measurement data from the BactoCloud API",
		Long: `BactoCloud Downloader ` + version.Version + ` - Built: ` + version.BuildTime + `
Downloads measurement records and their attachments from the BactoCloud
platform into a structured local directory tree:

  {output_dir}/{device_serial}/{timestamp}_{name}/measurement.json
  {output_dir}/{device_serial}/{timestamp}_{name}/data.fcs (etc.)

The API key, output directory and bucket defaults are stored in a small
JSON settings file; see "bactocloud config --help".`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A local .env can carry BACTOCLOUD_API_KEY / BACTOCLOUD_URL.
			_ = godotenv.Load()

			logger = logging.NewDefault()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Settings file path (default: platform settings location)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "BactoCloud API key (overrides settings file and environment)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "BactoCloud API base URL (overrides default)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides settings file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals so a running
	// download aborts cooperatively on Ctrl+C.
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				logging.NewDefault().Warnf("Received signal %v, aborting after the current measurement...", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig loads the settings file, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// resolveAPIKey picks the API key by precedence: --api-key flag,
// BACTOCLOUD_API_KEY environment (possibly via .env), settings file.
func resolveAPIKey(cfg *config.Config) string {
	if strings.TrimSpace(apiKey) != "" {
		return strings.TrimSpace(apiKey)
	}
	if env := strings.TrimSpace(os.Getenv("BACTOCLOUD_API_KEY")); env != "" {
		return env
	}
	return strings.TrimSpace(cfg.APIKey)
}

// resolveBaseURL picks the API base URL by precedence: --api-url flag,
// BACTOCLOUD_URL environment, built-in default.
func resolveBaseURL() string {
	if strings.TrimSpace(apiBaseURL) != "" {
		return strings.TrimSpace(apiBaseURL)
	}
	if env := strings.TrimSpace(os.Getenv("BACTOCLOUD_URL")); env != "" {
		return env
	}
	return config.DefaultBaseURL
}

// resolveOutputDir picks the output directory: --output flag, settings file.
func resolveOutputDir(cfg *config.Config) string {
	if strings.TrimSpace(outputDir) != "" {
		return outputDir
	}
	return cfg.OutputDir
}

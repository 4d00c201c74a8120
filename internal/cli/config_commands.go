package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashajkofci/bactocloud-downloader/internal/config"
)

// newConfigCmd creates the "config" command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View and change the stored settings",
		Long: `View and change the settings file (API key, output directory, bucket
toggles). Every change rewrites the file immediately.`,
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigSetKeyCmd())

	return configCmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := cfgFile
			if path == "" {
				path, _ = config.DefaultPath()
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Settings file: %s\n", path)
			fmt.Fprintf(w, "API key:       %s\n", maskKey(cfg.APIKey))
			fmt.Fprintf(w, "Output dir:    %s\n", cfg.OutputDir)
			fmt.Fprintf(w, "Buckets:       %s\n", strings.Join(cfg.Buckets().Buckets(), ", "))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		newOutputDir string
		bucketNames  []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change output directory or bucket toggles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output-dir") && !cmd.Flags().Changed("buckets") {
				return fmt.Errorf("nothing to change: pass --output-dir and/or --buckets")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = newOutputDir
			}
			if cmd.Flags().Changed("buckets") {
				sel, err := parseBuckets(bucketNames)
				if err != nil {
					return err
				}
				if sel.IsEmpty() {
					GetLogger().Warnf("No bucket selected; downloads will query all buckets")
				}
				cfg.SetBuckets(sel)
			}

			if err := config.Save(cfg, cfgFile); err != nil {
				return err
			}
			GetLogger().Infof("Settings saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&newOutputDir, "output-dir", "", "Base directory for downloaded measurements")
	cmd.Flags().StringSliceVar(&bucketNames, "buckets", nil, "Default buckets: any of auto,manual,monitoring (empty = all)")

	return cmd
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key (prompted without echo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			key, err := promptAPIKey()
			if err != nil {
				return err
			}
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("API key is empty")
			}

			cfg.APIKey = strings.TrimSpace(key)
			if err := config.Save(cfg, cfgFile); err != nil {
				return err
			}
			GetLogger().Infof("API key saved")
			return nil
		},
	}
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

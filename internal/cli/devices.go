package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashajkofci/bactocloud-downloader/internal/api"
	"github.com/ashajkofci/bactocloud-downloader/internal/validation"
)

// newDevicesCmd creates the "devices" command.
func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the physical devices visible to your API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			key := resolveAPIKey(cfg)
			if err := validation.APIKey(key); err != nil {
				return fmt.Errorf("%w: set one with 'bactocloud config set-key' or --api-key", err)
			}

			client, err := api.NewClient(resolveBaseURL(), key)
			if err != nil {
				return err
			}

			logger := GetLogger()
			logger.Infof("Loading devices...")

			devices, err := client.ListDevices(GetContext())
			if err != nil {
				return fmt.Errorf("failed to load devices: %w", err)
			}

			logger.Infof("Loaded %d devices", len(devices))
			for _, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%-45s %s\n", d.Label(), d.ID)
			}

			return nil
		},
	}
}

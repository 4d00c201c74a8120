package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ashajkofci/bactocloud-downloader/internal/api"
	"github.com/ashajkofci/bactocloud-downloader/internal/downloader"
	"github.com/ashajkofci/bactocloud-downloader/internal/events"
	"github.com/ashajkofci/bactocloud-downloader/internal/models"
	"github.com/ashajkofci/bactocloud-downloader/internal/processor"
	"github.com/ashajkofci/bactocloud-downloader/internal/validation"
)

const dateLayout = "2006-01-02"

// newDownloadCmd creates the "download" command.
func newDownloadCmd() *cobra.Command {
	var (
		deviceSerials []string
		startStr      string
		endStr        string
		bucketNames   []string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download measurements for selected devices and date range",
		Long: `Download measurements for the selected devices within an inclusive date
range, persisting metadata and attachments per measurement:

  bactocloud download --start 2024-01-01 --end 2024-01-31
  bactocloud download --device SN001 --device SN002 --buckets auto,monitoring

Without --device all devices are selected. Buckets default to the toggles in
the settings file; an empty bucket selection downloads from all buckets.
Press Ctrl+C to abort; the measurement in flight completes first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			key := resolveAPIKey(cfg)
			if err := validation.APIKey(key); err != nil {
				return fmt.Errorf("%w: set one with 'bactocloud config set-key' or --api-key", err)
			}

			rng, err := parseDateRange(startStr, endStr)
			if err != nil {
				return err
			}
			if err := validation.DateRange(rng); err != nil {
				return err
			}

			selection := cfg.Buckets()
			if cmd.Flags().Changed("buckets") {
				selection, err = parseBuckets(bucketNames)
				if err != nil {
					return err
				}
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

			selected, err := selectDevices(devices, deviceSerials)
			if err != nil {
				return err
			}
			if err := validation.DeviceSelection(selected); err != nil {
				return err
			}

			out := resolveOutputDir(cfg)

			bus := events.NewBus(0)
			runner := downloader.New(client, processor.New(client, bus), bus)

			// The run executes on a background worker; this goroutine
			// stays interactive, rendering the progress stream and
			// relaying Ctrl+C through the context.
			ch, done := startRun(GetContext(), runner, bus, selected, selection, rng, out)

			renderEvents(ch)

			res := <-done
			if res.err != nil {
				return res.err
			}

			printSummary(cmd, res.outcome)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&deviceSerials, "device", "d", nil, "Device serial to include (repeatable; default: all devices)")
	cmd.Flags().StringVar(&startStr, "start", "", "Start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "End date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&bucketNames, "buckets", nil, "Buckets to query: any of auto,manual,monitoring (default: settings file toggles)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

// runResult carries the worker's outcome back to the interactive side.
type runResult struct {
	outcome *downloader.Outcome
	err     error
}

// startRun subscribes to the event stream and then starts the worker, in
// that order: the bus discards events published while no subscriber exists,
// so subscribing after the start could lose the run's opening log lines.
func startRun(ctx context.Context, runner *downloader.Runner, bus *events.Bus, devices []models.Device, sel models.BucketSelection, rng models.DateRange, outputDir string) (<-chan events.Event, <-chan runResult) {
	ch := bus.SubscribeAll()

	done := make(chan runResult, 1)
	go func() {
		outcome, err := runner.Run(ctx, devices, sel, rng, outputDir)
		bus.Close()
		done <- runResult{outcome: outcome, err: err}
	}()

	return ch, done
}

// parseDateRange parses the --start/--end flags.
func parseDateRange(startStr, endStr string) (models.DateRange, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("invalid --start date %q (expected YYYY-MM-DD)", startStr)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("invalid --end date %q (expected YYYY-MM-DD)", endStr)
	}
	return models.DateRange{Start: start, End: end}, nil
}

// parseBuckets builds a selection from --buckets values.
func parseBuckets(names []string) (models.BucketSelection, error) {
	var sel models.BucketSelection
	for _, name := range names {
		switch name {
		case models.BucketAuto:
			sel.Auto = true
		case models.BucketManual:
			sel.Manual = true
		case models.BucketMonitoring:
			sel.Monitoring = true
		default:
			return sel, fmt.Errorf("unknown bucket %q (valid: auto, manual, monitoring)", name)
		}
	}
	return sel, nil
}

// selectDevices filters the loaded devices by the --device serials. An empty
// filter selects all devices; an unknown serial is an error.
func selectDevices(devices []models.Device, serials []string) ([]models.Device, error) {
	if len(serials) == 0 {
		return devices, nil
	}

	bySerial := make(map[string]models.Device, len(devices))
	for _, d := range devices {
		bySerial[d.SerialNumber] = d
	}

	selected := make([]models.Device, 0, len(serials))
	for _, serial := range serials {
		d, ok := bySerial[serial]
		if !ok {
			return nil, fmt.Errorf("unknown device serial %q", serial)
		}
		selected = append(selected, d)
	}
	return selected, nil
}

// renderEvents consumes the run's event stream until the bus closes,
// printing timestamped log lines and driving a per-device progress bar.
func renderEvents(ch <-chan events.Event) {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var bar *progressbar.ProgressBar
	clearBar := func() {
		if bar != nil {
			bar.Clear()
		}
	}

	for ev := range ch {
		switch e := ev.(type) {
		case *events.LogEvent:
			clearBar()
			fmt.Fprintf(os.Stderr, "[%s] %s %s\n",
				e.Timestamp().Format("15:04:05"), e.Level, e.Message)

		case *events.ProgressEvent:
			if !isTerminal {
				continue
			}
			if bar == nil || e.Current == 1 {
				clearBar()
				bar = progressbar.NewOptions(e.Total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription(e.DeviceSerial),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(e.Current)

		case *events.CompleteEvent:
			clearBar()
		}
	}
	clearBar()
}

// printSummary reports the run outcome.
func printSummary(cmd *cobra.Command, outcome *downloader.Outcome) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n=== Download %s ===\n", outcome.State)
	fmt.Fprintf(w, "Total measurements downloaded: %d\n", outcome.Processed)
	if len(outcome.ItemErrors) > 0 {
		fmt.Fprintf(w, "Errors (%d):\n", len(outcome.ItemErrors))
		for _, itemErr := range outcome.ItemErrors {
			fmt.Fprintf(w, "  - %s\n", itemErr.Error())
		}
	}
	fmt.Fprintf(w, "Duration: %s\n", outcome.Duration.Round(time.Millisecond))
}

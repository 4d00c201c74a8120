// Package downloader orchestrates a download run: selected devices × bucket
// filter × date range, processed sequentially on one worker.
//
// Cancellation is cooperative, via the run context, and checked before each
// device and before each measurement; an in-flight request or file write
// always completes before the abort is honored.
package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ashajkofci/bactocloud-downloader/internal/events"
	"github.com/ashajkofci/bactocloud-downloader/internal/models"
	"github.com/ashajkofci/bactocloud-downloader/internal/validation"
)

// State is the lifecycle of a download run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ItemError is a recoverable per-device or per-measurement error. Item
// errors are logged and accumulated; they never stop the run.
type ItemError struct {
	DeviceSerial  string
	MeasurementID string
	Err           error
}

func (e ItemError) Error() string {
	if e.MeasurementID != "" {
		return fmt.Sprintf("device %s, measurement %s: %v", e.DeviceSerial, e.MeasurementID, e.Err)
	}
	return fmt.Sprintf("device %s: %v", e.DeviceSerial, e.Err)
}

// Outcome summarizes one download run.
type Outcome struct {
	Processed  int
	ItemErrors []ItemError
	State      State
	Duration   time.Duration
}

// MeasurementLister queries matching measurements for one device.
// Satisfied by api.Client.
type MeasurementLister interface {
	ListMeasurements(ctx context.Context, deviceID string, rng models.DateRange, buckets []string) ([]models.Measurement, error)
}

// MeasurementProcessor persists one measurement. Satisfied by
// processor.Processor.
type MeasurementProcessor interface {
	Process(ctx context.Context, m *models.Measurement, deviceSerial, outputDir string) error
}

// Runner executes download runs. A Runner is reusable but runs one download
// at a time; State is safe to read from another goroutine while Run is in
// flight.
type Runner struct {
	lister    MeasurementLister
	processor MeasurementProcessor
	bus       *events.Bus

	mu    sync.RWMutex
	state State
}

// New creates a runner. bus may be nil.
func New(lister MeasurementLister, processor MeasurementProcessor, bus *events.Bus) *Runner {
	return &Runner{
		lister:    lister,
		processor: processor,
		bus:       bus,
		state:     StateIdle,
	}
}

// State returns the current run state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	old := r.state
	r.state = s
	r.mu.Unlock()

	if r.bus != nil && old != s {
		r.bus.PublishStateChange(old.String(), s.String())
	}
}

// Run downloads all matching measurements for the selected devices. Input
// validation failures transition to Failed and return an error before any
// network call. Per-device and per-measurement errors are collected in the
// outcome and do not stop the run. Cancelling ctx aborts cooperatively; the
// outcome then reports the count completed so far with State Aborted.
func (r *Runner) Run(ctx context.Context, devices []models.Device, sel models.BucketSelection, rng models.DateRange, outputDir string) (*Outcome, error) {
	started := time.Now()

	if err := validation.DeviceSelection(devices); err != nil {
		r.setState(StateFailed)
		return nil, err
	}
	if err := validation.DateRange(rng); err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	r.setState(StateRunning)

	buckets := sel.Buckets()
	if sel.IsEmpty() {
		// Empty selection sends an empty filter, which the server reads
		// as "no bucket restriction".
		r.logf(events.WarnLevel, "", "No bucket selected; downloading measurements from all buckets")
	}

	norm := rng.Normalized()
	r.logf(events.InfoLevel, "", "Date range: %s to %s",
		norm.Start.Format("2006-01-02 15:04:05"), norm.End.Format("2006-01-02 15:04:05"))

	outcome := &Outcome{}

	for _, device := range devices {
		if ctx.Err() != nil {
			return r.finishAborted(outcome, started), nil
		}

		serial := device.SerialNumber
		if err := validation.DeviceSerial(serial); err != nil {
			r.recordItemError(outcome, ItemError{DeviceSerial: serial, Err: err})
			continue
		}

		r.logf(events.InfoLevel, serial, "Processing device: %s", serial)

		measurements, err := r.lister.ListMeasurements(ctx, device.ID, rng, buckets)
		if err != nil {
			// One device failing to list does not stop the run.
			r.recordItemError(outcome, ItemError{DeviceSerial: serial, Err: err})
			continue
		}

		r.logf(events.InfoLevel, serial, "Found %d measurements", len(measurements))

		for i := range measurements {
			if ctx.Err() != nil {
				return r.finishAborted(outcome, started), nil
			}

			m := &measurements[i]
			if err := r.processor.Process(ctx, m, serial, outputDir); err != nil {
				r.recordItemError(outcome, ItemError{DeviceSerial: serial, MeasurementID: m.ID, Err: err})
				continue
			}
			outcome.Processed++

			if r.bus != nil {
				r.bus.PublishProgress(serial, i+1, len(measurements),
					fmt.Sprintf("measurement %d/%d", i+1, len(measurements)))
			}
		}
	}

	outcome.State = StateCompleted
	outcome.Duration = time.Since(started)
	r.setState(StateCompleted)
	r.publishComplete(outcome, false)
	r.logf(events.InfoLevel, "", "Download complete: %d measurements", outcome.Processed)

	return outcome, nil
}

// finishAborted finalizes an outcome after observing cancellation.
func (r *Runner) finishAborted(outcome *Outcome, started time.Time) *Outcome {
	outcome.State = StateAborted
	outcome.Duration = time.Since(started)
	r.setState(StateAborted)
	r.publishComplete(outcome, true)
	r.logf(events.WarnLevel, "", "Download aborted: %d measurements completed", outcome.Processed)
	return outcome
}

func (r *Runner) recordItemError(outcome *Outcome, itemErr ItemError) {
	outcome.ItemErrors = append(outcome.ItemErrors, itemErr)
	r.logf(events.ErrorLevel, itemErr.DeviceSerial, "Error: %v", itemErr.Err)
}

func (r *Runner) publishComplete(outcome *Outcome, aborted bool) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(&events.CompleteEvent{
		BaseEvent:  events.BaseEvent{EventType: events.EventComplete, Time: time.Now()},
		Processed:  outcome.Processed,
		ItemErrors: len(outcome.ItemErrors),
		Aborted:    aborted,
		Duration:   outcome.Duration,
	})
}

func (r *Runner) logf(level events.LogLevel, deviceSerial, format string, args ...interface{}) {
	if r.bus == nil {
		return
	}
	r.bus.PublishLog(level, fmt.Sprintf(format, args...), deviceSerial, nil)
}

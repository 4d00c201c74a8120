// Package processor persists a single measurement to the local output tree.
//
// Layout per measurement:
//
//	{output_dir}/{device_serial}/{timestamp}_{name}/measurement.json
//	{output_dir}/{device_serial}/{timestamp}_{name}/data.fcs (etc.)
//
// Writes are not transactional: a partially written measurement stays on
// disk, and re-running the workflow overwrites the same paths.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ashajkofci/bactocloud-downloader/internal/events"
	"github.com/ashajkofci/bactocloud-downloader/internal/models"
	"github.com/ashajkofci/bactocloud-downloader/internal/util/sanitize"
)

// MetadataFilename is the JSON metadata file written per measurement.
const MetadataFilename = "measurement.json"

// FileFetcher downloads attachment bytes by opaque file ID. Satisfied by
// api.Client.
type FileFetcher interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}

// Processor writes measurements and their attachments to disk.
type Processor struct {
	fetcher FileFetcher
	bus     *events.Bus
}

// New creates a processor. bus may be nil.
func New(fetcher FileFetcher, bus *events.Bus) *Processor {
	return &Processor{fetcher: fetcher, bus: bus}
}

// FolderName derives the measurement folder name
// "{timestamp}_{sanitized_name}".
func FolderName(m *models.Measurement) string {
	return sanitize.Timestamp(m.Timestamp) + "_" + sanitize.FolderName(m.Name)
}

// Process writes one measurement's metadata and attachments under
// {outputDir}/{deviceSerial}. An attachment that cannot be fetched is logged
// and skipped; only directory creation and the metadata write are fatal for
// the measurement.
func (p *Processor) Process(ctx context.Context, m *models.Measurement, deviceSerial, outputDir string) error {
	folderName := FolderName(m)
	outputPath := filepath.Join(outputDir, deviceSerial, folderName)

	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create measurement directory: %w", err)
	}

	p.logf(events.InfoLevel, deviceSerial, "Processing: %s", folderName)

	metadata, err := m.MetadataJSON()
	if err != nil {
		return fmt.Errorf("failed to encode measurement metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputPath, MetadataFilename), metadata, 0644); err != nil {
		return fmt.Errorf("failed to write measurement metadata: %w", err)
	}

	for _, code := range sortedCodes(m.Files) {
		fileID := m.Files[code]
		if fileID == "" {
			continue
		}
		att := attachmentFor(code)

		data, err := p.fetcher.FetchFile(ctx, fileID)
		if err != nil {
			p.logf(events.WarnLevel, deviceSerial, "%s not available: %v", att.Label, err)
			continue
		}

		if err := os.WriteFile(filepath.Join(outputPath, att.Filename), data, 0644); err != nil {
			p.logf(events.WarnLevel, deviceSerial, "failed to write %s: %v", att.Label, err)
			continue
		}

		p.logf(events.InfoLevel, deviceSerial, "Downloaded %s (%d bytes)", att.Label, len(data))
	}

	return nil
}

// sortedCodes returns attachment type codes in stable order.
func sortedCodes(files map[string]string) []string {
	codes := make([]string, 0, len(files))
	for code := range files {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (p *Processor) logf(level events.LogLevel, deviceSerial, format string, args ...interface{}) {
	if p.bus == nil {
		return
	}
	p.bus.PublishLog(level, fmt.Sprintf(format, args...), deviceSerial, nil)
}

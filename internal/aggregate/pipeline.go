package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nathannncurtis/Study-Aggregator/internal/archive"
	"github.com/nathannncurtis/Study-Aggregator/internal/dicom"
	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

// Recorder receives per-archive outcomes for run diagnostics. Implementations
// must tolerate being called from a single goroutine only.
type Recorder interface {
	RecordArchive(ctx context.Context, archivePath, status string, records int, note string)
}

// Archive outcome statuses as recorded in the scan journal.
const (
	StatusDone             = "done"
	StatusSkippedEncrypted = "skipped_encrypted"
	StatusSkippedCorrupted = "skipped_corrupted"
	StatusDepthExceeded    = "depth_exceeded"
	StatusWrongPassword    = "wrong_password"
	StatusFailed           = "failed"
)

// Options wires a Pipeline.
type Options struct {
	// Archives unpacks zip inputs and collects their records.
	Archives *archive.Extractor
	// Metadata classifies and extracts loose files outside archives.
	Metadata *dicom.Extractor
	// Workers sizes the loose-file classification pool.
	Workers int
	// Broker services credential requests; nil declines every prompt.
	Broker *CredentialBroker
	// Recorder receives per-archive outcomes; nil disables journaling.
	Recorder Recorder
	// Progress receives coarse updates; nil discards them.
	Progress Progress
	Logger   *slog.Logger
}

// Pipeline runs one aggregation pass over an input path.
type Pipeline struct {
	archives *archive.Extractor
	metadata *dicom.Extractor
	workers  int
	broker   *CredentialBroker
	recorder Recorder
	progress Progress
	logger   *slog.Logger
}

// NewPipeline builds a pipeline from its wired collaborators.
func NewPipeline(opts Options) *Pipeline {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		archives: opts.Archives,
		metadata: opts.Metadata,
		workers:  workers,
		broker:   opts.Broker,
		recorder: opts.Recorder,
		progress: opts.Progress,
		logger:   logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
}

// Run scans inputPath, which is either a single zip archive or a directory
// tree, and returns the merged patient registry. A wrong password is a
// terminal failure in both modes; archives that are corrupted, unreadable,
// or nested too deeply are skipped with a recorded outcome.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*patient.Registry, error) {
	ctx = services.WithRunID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "input",
			fmt.Sprintf("cannot read input path %s", inputPath), err)
	}

	var records []patient.Record
	switch {
	case info.IsDir():
		records, err = p.scanDirectory(ctx, inputPath, logger)
	case archive.IsArchivePath(inputPath):
		records, err = p.scanArchive(ctx, inputPath, logger)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "input",
			fmt.Sprintf("%s is neither a directory nor a zip archive", inputPath), nil)
	}
	if err != nil {
		return nil, err
	}

	p.emit(95, "Merging patient records")
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrNoCandidates, "pipeline", "merge", inputPath, nil)
	}

	registry := patient.Merge(records, p.logger)
	if registry.Len() == 0 {
		return nil, services.Wrap(services.ErrNoValidPatients, "pipeline", "merge", inputPath, nil)
	}

	logger.Info("scan complete",
		logging.Int("records", len(records)),
		logging.Int("patients", registry.Len()))
	p.emit(100, fmt.Sprintf("Found %d patient(s)", registry.Len()))
	return registry, nil
}

// scanArchive handles a single-archive input.
func (p *Pipeline) scanArchive(ctx context.Context, path string, logger *slog.Logger) ([]patient.Record, error) {
	p.emit(5, "Inspecting archive")

	encryption := archive.Classify(path)
	if encryption == archive.EncryptionCorrupted {
		p.record(ctx, path, StatusSkippedCorrupted, 0, "archive unreadable")
		return nil, services.Wrap(services.ErrCorruptedArchive, "pipeline", "classify", path, nil)
	}

	var password *string
	if encryption.Encrypted() {
		supplied, err := p.requestCredential(ctx, fmt.Sprintf("Password for %s", filepath.Base(path)))
		if err != nil {
			return nil, err
		}
		password = supplied
	}

	p.emit(15, "Extracting archive")
	records, err := p.archives.Extract(ctx, archive.Task{Path: path, Password: password})
	p.record(ctx, path, outcomeForError(err), len(records), noteForError(err))
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) || !services.IsSoftSkip(err) {
			return nil, err
		}
		logger.Warn("archive skipped", logging.Error(err))
		return nil, nil
	}
	return records, nil
}

// scanDirectory handles a directory input: archives first, sequentially, then
// loose candidate files across the whole tree.
func (p *Pipeline) scanDirectory(ctx context.Context, root string, logger *slog.Logger) ([]patient.Record, error) {
	p.emit(0, "Scanning for archives")

	archives, err := findArchives(root)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "pipeline", "enumerate", root, err)
	}
	logger.Info("enumerated archives", logging.Int("count", len(archives)))

	// Classify everything up front so at most one credential request covers
	// the whole run.
	needsPassword := make(map[string]bool, len(archives))
	anyEncrypted := false
	for _, path := range archives {
		encrypted := archive.Classify(path).Encrypted()
		needsPassword[path] = encrypted
		anyEncrypted = anyEncrypted || encrypted
	}

	var password *string
	if anyEncrypted {
		supplied, err := p.requestCredential(ctx, "Password for encrypted archives")
		if err != nil {
			return nil, err
		}
		password = supplied
	}

	var records []patient.Record
	for i, path := range archives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.emit(scalePercent(10, 75, i, len(archives)),
			fmt.Sprintf("Processing archive %d/%d: %s", i+1, len(archives), filepath.Base(path)))

		task := archive.Task{Path: path}
		if needsPassword[path] {
			task.Password = password
		}
		archiveRecords, err := p.archives.Extract(ctx, task)
		p.record(ctx, path, outcomeForError(err), len(archiveRecords), noteForError(err))
		if err != nil {
			if errors.Is(err, services.ErrWrongPassword) {
				return nil, err
			}
			if !services.IsSoftSkip(err) {
				return nil, err
			}
			continue
		}
		records = append(records, archiveRecords...)
	}

	p.emit(80, "Scanning loose files")
	loose, err := findLooseCandidates(root)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "pipeline", "walk", root, err)
	}
	records = append(records, dicom.Collect(ctx, p.metadata, loose, p.workers, "")...)

	return records, nil
}

// requestCredential asks the broker for a password. A cancelled prompt yields
// nil, which downstream treats as "no password supplied".
func (p *Pipeline) requestCredential(ctx context.Context, prompt string) (*string, error) {
	if p.broker == nil {
		return nil, nil
	}
	p.emit(AwaitingCredential, prompt)
	password, ok, err := p.broker.request(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &password, nil
}

func (p *Pipeline) record(ctx context.Context, path, status string, records int, note string) {
	if p.recorder != nil {
		p.recorder.RecordArchive(ctx, path, status, records, note)
	}
}

func outcomeForError(err error) string {
	switch {
	case err == nil:
		return StatusDone
	case errors.Is(err, services.ErrWrongPassword):
		return StatusWrongPassword
	case errors.Is(err, services.ErrEncryptedNoPassword):
		return StatusSkippedEncrypted
	case errors.Is(err, services.ErrCorruptedArchive):
		return StatusSkippedCorrupted
	case errors.Is(err, services.ErrDepthExceeded):
		return StatusDepthExceeded
	default:
		return StatusFailed
	}
}

func noteForError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// findArchives enumerates zip files beneath root, skipping hidden
// directories. Results are sorted for a stable processing order.
func findArchives(root string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if archive.IsArchivePath(entry.Name()) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(archives)
	return archives, nil
}

// findLooseCandidates enumerates non-archive candidate files beneath root.
// Archive contents never appear here: extraction happens in scratch
// directories outside the input tree.
func findLooseCandidates(root string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if archive.IsArchivePath(entry.Name()) {
			return nil
		}
		if archive.IsCandidatePath(entry.Name()) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// scalePercent maps progress through a sub-range of the run.
func scalePercent(from, to, index, total int) int {
	if total <= 0 {
		return to
	}
	return from + (to-from)*index/total
}

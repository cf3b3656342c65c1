package archive

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"

	"github.com/nathannncurtis/Study-Aggregator/internal/dicom"
	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
	"github.com/nathannncurtis/Study-Aggregator/internal/services"
	"github.com/nathannncurtis/Study-Aggregator/internal/services/sevenzip"
)

// Task describes one archive awaiting extraction.
type Task struct {
	// Path is the archive location on disk.
	Path string
	// Depth is the nesting level; 0 for a top-level archive.
	Depth int
	// Password is the applicable credential. Nil means none was supplied;
	// an empty string means "try without a password".
	Password *string
	// Parent is the enclosing archive, for provenance.
	Parent string
}

// Options configures an Extractor.
type Options struct {
	// ScratchRoot holds the per-archive scratch directories.
	ScratchRoot string
	// MaxDepth bounds nested-archive recursion.
	MaxDepth int
	// Workers sizes the file classification pool.
	Workers int
	// SevenZip is the optional external extractor fast path.
	SevenZip *sevenzip.Client
	// Metadata extracts study records from classified files.
	Metadata *dicom.Extractor
	Logger   *slog.Logger
}

// Extractor unpacks archives recursively and collects study records from
// their contents.
type Extractor struct {
	scratchRoot string
	maxDepth    int
	workers     int
	sevenZip    *sevenzip.Client
	metadata    *dicom.Extractor
	logger      *slog.Logger
}

// NewExtractor builds an archive extractor.
func NewExtractor(opts Options) *Extractor {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		scratchRoot: opts.ScratchRoot,
		maxDepth:    maxDepth,
		workers:     workers,
		sevenZip:    opts.SevenZip,
		metadata:    opts.Metadata,
		logger:      logging.NewComponentLogger(opts.Logger, "archive"),
	}
}

// Extract unpacks one archive into a fresh scratch directory, recurses into
// nested archives, and returns the study records found. The scratch
// directory is removed on every exit path.
//
// The returned error is nil on success; wrong passwords propagate unchanged
// across the recursion, and every other failure class is a soft skip the
// caller can identify with errors.Is.
func (e *Extractor) Extract(ctx context.Context, task Task) ([]patient.Record, error) {
	ctx = services.WithDepth(services.WithArchive(ctx, task.Path), task.Depth)
	logger := logging.WithContext(ctx, e.logger)

	if task.Depth > e.maxDepth {
		logger.Warn("nesting depth exceeded, archive skipped",
			logging.Int("max_depth", e.maxDepth))
		return nil, services.Wrap(services.ErrDepthExceeded, "archive", "extract", task.Path, nil)
	}

	encryption := Classify(task.Path)
	logger.Debug("classified archive", logging.String("encryption", encryption.String()))

	switch {
	case encryption == EncryptionCorrupted:
		logger.Warn("corrupted archive skipped")
		return nil, services.Wrap(services.ErrCorruptedArchive, "archive", "extract", task.Path, nil)
	case encryption.Encrypted() && task.Password == nil:
		logger.Warn("encrypted archive skipped: no password supplied")
		return nil, services.Wrap(services.ErrEncryptedNoPassword, "archive", "extract", task.Path, nil)
	}

	scratch, err := NewScratchDir(e.scratchRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "archive", "scratch", task.Path, err)
	}
	defer removeScratch(scratch, logger)

	if err := e.unpack(ctx, task, encryption, scratch, logger); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			return nil, err
		}
		logger.Warn("extraction failed", logging.Error(err))
		return nil, services.Wrap(services.ErrExtraction, "archive", "extract", task.Path, err)
	}

	nested, candidates, err := partitionScratch(scratch)
	if err != nil {
		logger.Warn("scratch scan failed", logging.Error(err))
		return nil, services.Wrap(services.ErrExtraction, "archive", "scan", task.Path, err)
	}

	var records []patient.Record
	for _, child := range nested {
		childRecords, err := e.Extract(ctx, Task{
			Path:     child,
			Depth:    task.Depth + 1,
			Password: task.Password,
			Parent:   task.Path,
		})
		if err != nil {
			if errors.Is(err, services.ErrWrongPassword) {
				return nil, err
			}
			// Soft skip; already logged at the failing level.
			continue
		}
		records = append(records, childRecords...)
	}

	collected := dicom.Collect(ctx, e.metadata, candidates, e.workers, task.Path)
	records = append(records, collected...)

	logger.Info("archive scanned",
		logging.Int("nested_archives", len(nested)),
		logging.Int("candidate_files", len(candidates)),
		logging.Int("records", len(records)))
	return records, nil
}

// unpack places the archive contents into scratch, choosing the extraction
// tier from the encryption classification.
func (e *Extractor) unpack(ctx context.Context, task Task, encryption Encryption, scratch string, logger *slog.Logger) error {
	if encryption == EncryptionNone {
		return extractZip(task.Path, scratch, "")
	}

	password := *task.Password
	if e.sevenZip != nil {
		err := e.sevenZip.Extract(ctx, task.Path, scratch, password)
		if err == nil {
			return nil
		}
		if errors.Is(err, services.ErrWrongPassword) {
			return err
		}
		logger.Debug("seven-zip failed, falling back to built-in codec", logging.Error(err))
		if resetErr := resetScratch(scratch); resetErr != nil {
			return resetErr
		}
	}

	return extractZip(task.Path, scratch, password)
}

// extractZip is the built-in codec. It handles plain, ZipCrypto, and WinZip
// AES entries; the reader selects the decode path per entry header.
func extractZip(path, dest, password string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.IsEncrypted() {
			file.SetPassword(password)
		}
		if err := extractEntry(file, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(file *zip.File, dest string) error {
	name := filepath.FromSlash(file.Name)
	if !filepath.IsLocal(name) {
		// Entry escapes the scratch directory; never write it.
		return nil
	}
	target := filepath.Join(dest, name)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	src, err := file.Open()
	if err != nil {
		// Password verification happens when the entry stream is opened; a
		// failure here on an encrypted entry is an authentication failure.
		// Anything past this point is plain I/O and stays a generic error.
		if file.IsEncrypted() {
			return services.Wrap(services.ErrWrongPassword, "archive", "decrypt", file.Name, err)
		}
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return err
	}
	return dst.Close()
}

// candidateExtensions are the loose-file extensions worth classifying.
// Files without any extension are also candidates.
var candidateExtensions = map[string]struct{}{
	".dcm":   {},
	".ima":   {},
	".dicom": {},
}

// IsCandidatePath reports whether a filename is worth handing to the
// classifier, by extension alone.
func IsCandidatePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return true
	}
	_, ok := candidateExtensions[ext]
	return ok
}

// IsArchivePath reports whether a filename looks like a zip archive.
func IsArchivePath(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

// partitionScratch walks an extracted tree, separating nested archives from
// candidate study files.
func partitionScratch(root string) (archives, candidates []string, err error) {
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch {
		case IsArchivePath(entry.Name()):
			archives = append(archives, path)
		case IsCandidatePath(entry.Name()):
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return archives, candidates, nil
}

package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
)

// NewScratchDir creates a fresh, uniquely named scratch directory under
// root. Scratch directories are never shared between extractions.
func NewScratchDir(root string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create scratch root: %w", err)
	}
	dir := filepath.Join(root, "scan-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

// removeScratch deletes a scratch directory, logging rather than failing
// when the filesystem refuses.
func removeScratch(dir string, logger *slog.Logger) {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("failed to remove scratch directory",
			logging.String("path", dir),
			logging.Error(err))
		return
	}
	logger.Debug("removed scratch directory", logging.String("path", dir))
}

// resetScratch empties a scratch directory between extraction attempts so a
// failed fast path cannot leak partial output into the fallback.
func resetScratch(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.Mkdir(dir, 0o700)
}

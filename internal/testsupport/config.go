package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalPath = filepath.Join(base, "journal", "journal.db")
	cfg.Scan.MaxWorkers = 2
	cfg.Scan.CredentialWaitSeconds = 5
	cfg.SevenZip.Binary = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMaxDepth overrides the nested-archive recursion bound.
func WithMaxDepth(depth int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.MaxDepth = depth
	}
}

// WithJournal enables journaling on the test config.
func WithJournal() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.Enabled = true
	}
}

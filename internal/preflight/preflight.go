package preflight

import (
	"runtime"

	"github.com/nathannncurtis/Study-Aggregator/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// A failed external-extractor check is advisory: the built-in codec still
// covers zip archives.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	if cfg.Journal.Enabled {
		results = append(results, CheckDirectoryAccess("Journal directory", cfg.Paths.JournalPath))
	}
	results = append(results, CheckSevenZip(cfg.SevenZip.Binary))
	results = append(results, CheckScratchSpace(cfg.Paths.ScratchDir))
	return results
}

// MaxWorkerCeiling caps the classification pool regardless of CPU count.
const MaxWorkerCeiling = 8

// ResolveWorkers returns the effective worker count: the configured value
// when positive, otherwise min(NumCPU, ceiling).
func ResolveWorkers(configured int) int {
	if configured > 0 {
		if configured > MaxWorkerCeiling {
			return MaxWorkerCeiling
		}
		return configured
	}
	workers := runtime.NumCPU()
	if workers > MaxWorkerCeiling {
		workers = MaxWorkerCeiling
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/testsupport"
)

func TestResolveWorkersHonorsConfiguredValue(t *testing.T) {
	if got := ResolveWorkers(3); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestResolveWorkersCapsAtCeiling(t *testing.T) {
	if got := ResolveWorkers(50); got != MaxWorkerCeiling {
		t.Fatalf("expected ceiling %d, got %d", MaxWorkerCeiling, got)
	}
}

func TestResolveWorkersDefaultsWithinBounds(t *testing.T) {
	got := ResolveWorkers(0)
	if got < 1 || got > MaxWorkerCeiling {
		t.Fatalf("default worker count %d out of bounds", got)
	}
}

func TestCheckDirectoryAccessCreatesAndPasses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scratch")
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestCheckDirectoryAccessUsesParentForFilePaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "journal.db")
	result := CheckDirectoryAccess("test", path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent directory not created: %v", err)
	}
}

func TestCheckSevenZipWithExplicitBinary(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "7z")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	result := CheckSevenZip(binary)
	if !result.Passed || result.Detail != binary {
		t.Fatalf("expected pass for explicit binary, got %+v", result)
	}
}

func TestCheckSevenZipMissingOverride(t *testing.T) {
	result := CheckSevenZip(filepath.Join(t.TempDir(), "missing-7z"))
	if result.Passed {
		t.Fatal("missing override must not pass")
	}
}

func TestRunAllCoversConfiguredChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks with journaling enabled, got %d", len(results))
	}
}

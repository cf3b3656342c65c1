package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nathannncurtis/Study-Aggregator/internal/services/sevenzip"
)

// CheckDirectoryAccess verifies the parent of path (or path itself when it
// is a directory) can be created and written.
func CheckDirectoryAccess(name, path string) Result {
	dir := path
	if filepath.Ext(path) != "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot create %s: %v", dir, err)}
	}
	probe, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot write to %s: %v", dir, err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Result{Name: name, Passed: true, Detail: dir}
}

// CheckSevenZip reports whether an external 7-Zip binary is reachable.
func CheckSevenZip(override string) Result {
	binary := sevenzip.Discover(override)
	if binary == "" {
		return Result{
			Name:   "7-Zip",
			Detail: "not found; built-in zip codec will be used",
		}
	}
	return Result{Name: "7-Zip", Passed: true, Detail: binary}
}

// minScratchBytes is the free-space floor below which extraction is likely
// to fail mid-archive.
const minScratchBytes = 512 << 20

// CheckScratchSpace verifies the scratch filesystem has headroom for
// extraction. On platforms without statfs support the check passes with a
// note.
func CheckScratchSpace(path string) Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: "Scratch space", Detail: fmt.Sprintf("cannot create %s: %v", path, err)}
	}
	free, err := freeBytes(path)
	if err != nil {
		return Result{Name: "Scratch space", Passed: true, Detail: "free space unknown"}
	}
	if free < minScratchBytes {
		return Result{
			Name:   "Scratch space",
			Detail: fmt.Sprintf("only %d MiB free at %s", free>>20, path),
		}
	}
	return Result{
		Name:   "Scratch space",
		Passed: true,
		Detail: fmt.Sprintf("%d MiB free", free>>20),
	}
}

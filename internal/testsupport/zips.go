package testsupport

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeka/zip"
)

// WriteZip builds a plain zip at path from entry name to content.
func WriteZip(t testing.TB, path string, entries map[string][]byte) {
	t.Helper()
	writeZip(t, path, entries, "", 0)
}

// WriteEncryptedZip builds a zip whose entries are all encrypted with the
// given method and password.
func WriteEncryptedZip(t testing.TB, path, password string, method zip.EncryptionMethod, entries map[string][]byte) {
	t.Helper()
	writeZip(t, path, entries, password, method)
}

func writeZip(t testing.TB, path string, entries map[string][]byte, password string, method zip.EncryptionMethod) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		var (
			entry    io.Writer
			entryErr error
		)
		if password != "" || method != 0 {
			entry, entryErr = zw.Encrypt(name, password, method)
		} else {
			entry, entryErr = zw.Create(name)
		}
		if entryErr != nil {
			t.Fatalf("add entry %s: %v", name, entryErr)
		}
		if _, err := entry.Write(content); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
}

// Corrupt truncates an existing file to garbage so readers reject it.
func Corrupt(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("corrupt %s: %v", path, err)
	}
}

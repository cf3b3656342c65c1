package dicom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/suyashkumar/dicom"
)

// minFileSize is the 128-byte preamble plus the 4-byte DICM token. Anything
// smaller cannot be a DICOM file.
const minFileSize = 132

var magicToken = []byte("DICM")

// denyExtensions lists file types that are never DICOM, skipped before any
// I/O happens.
var denyExtensions = map[string]struct{}{
	".pdf":  {},
	".txt":  {},
	".exe":  {},
	".bat":  {},
	".inf":  {},
	".chm":  {},
	".log":  {},
	".xml":  {},
	".html": {},
	".zip":  {},
}

// IsCandidate reports whether path looks like a DICOM file. It never returns
// an error: every failure path resolves to false.
func IsCandidate(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if _, denied := denyExtensions[strings.ToLower(filepath.Ext(path))]; denied {
		return false
	}
	if info.Size() < minFileSize {
		return false
	}

	if ok, conclusive := sniffMagic(path); conclusive {
		return ok
	}
	return parseProbe(path)
}

// sniffMagic checks the DICM token at offset 128. The second return value is
// false when the read itself was inconclusive and the caller should fall back
// to a full parse.
func sniffMagic(path string) (bool, bool) {
	file, err := os.Open(path)
	if err != nil {
		return false, false
	}
	defer file.Close()

	var header [minFileSize]byte
	if _, err := file.ReadAt(header[:], 0); err != nil {
		return false, false
	}
	if string(header[128:132]) == string(magicToken) {
		return true, true
	}
	// A readable header without the token is still worth a tolerant parse:
	// some exporters omit the preamble.
	return false, false
}

// parseProbe attempts a header-only parse. Any failure means "not DICOM".
func parseProbe(path string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false
	}

	_, err = dicom.Parse(file, info.Size(), nil, dicom.SkipPixelData())
	return err == nil
}

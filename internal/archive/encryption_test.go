package archive

import (
	"path/filepath"
	"testing"

	"github.com/yeka/zip"

	"github.com/nathannncurtis/Study-Aggregator/internal/testsupport"
)

func TestClassifyPlainArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.zip")
	testsupport.WriteZip(t, path, map[string][]byte{"a.txt": []byte("hello")})

	if got := Classify(path); got != EncryptionNone {
		t.Fatalf("expected None, got %s", got)
	}
}

func TestClassifyZipCryptoArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.zip")
	testsupport.WriteEncryptedZip(t, path, "secret", zip.StandardEncryption,
		map[string][]byte{"a.txt": []byte("hello")})

	if got := Classify(path); got != EncryptionTraditional {
		t.Fatalf("expected Traditional, got %s", got)
	}
}

func TestClassifyAESArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aes.zip")
	testsupport.WriteEncryptedZip(t, path, "secret", zip.AES256Encryption,
		map[string][]byte{"a.txt": []byte("hello")})

	if got := Classify(path); got != EncryptionAES {
		t.Fatalf("expected AES, got %s", got)
	}
}

func TestClassifyCorruptedArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	testsupport.Corrupt(t, path)

	if got := Classify(path); got != EncryptionCorrupted {
		t.Fatalf("expected Corrupted, got %s", got)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aes.zip")
	testsupport.WriteEncryptedZip(t, path, "secret", zip.AES256Encryption,
		map[string][]byte{"a.txt": []byte("hello")})

	first := Classify(path)
	second := Classify(path)
	if first != second {
		t.Fatalf("classification changed between calls: %s then %s", first, second)
	}
}

func TestEncryptedPredicate(t *testing.T) {
	if EncryptionNone.Encrypted() || EncryptionCorrupted.Encrypted() {
		t.Fatal("None and Corrupted must not report encrypted")
	}
	for _, e := range []Encryption{EncryptionTraditional, EncryptionAES, EncryptionUnknown} {
		if !e.Encrypted() {
			t.Fatalf("%s should report encrypted", e)
		}
	}
}

package archive

import (
	"encoding/binary"
	"errors"

	"github.com/yeka/zip"
)

// Encryption is the scheme protecting an archive's entries, determined from
// central-directory metadata only.
type Encryption int

const (
	// EncryptionNone means no entry carries the encryption flag.
	EncryptionNone Encryption = iota
	// EncryptionTraditional is legacy ZipCrypto.
	EncryptionTraditional
	// EncryptionAES is the WinZip AES extension.
	EncryptionAES
	// EncryptionCorrupted means the central directory could not be parsed.
	EncryptionCorrupted
	// EncryptionUnknown means encryption could not be determined; treated
	// downstream as "may need a password".
	EncryptionUnknown
)

func (e Encryption) String() string {
	switch e {
	case EncryptionNone:
		return "none"
	case EncryptionTraditional:
		return "traditional"
	case EncryptionAES:
		return "aes"
	case EncryptionCorrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// Encrypted reports whether the classification calls for a credential.
func (e Encryption) Encrypted() bool {
	switch e {
	case EncryptionTraditional, EncryptionAES, EncryptionUnknown:
		return true
	default:
		return false
	}
}

// aesExtraTag is the WinZip AES extra-field record identifier.
const aesExtraTag = 0x9901

// Classify inspects an archive's central directory and reports its
// encryption scheme. Calling it twice on an unchanged file returns the same
// result.
func Classify(path string) Encryption {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return EncryptionCorrupted
		}
		return EncryptionUnknown
	}
	defer reader.Close()

	for _, file := range reader.File {
		if !file.IsEncrypted() {
			continue
		}
		if hasAESExtra(file.Extra) {
			return EncryptionAES
		}
		return EncryptionTraditional
	}
	return EncryptionNone
}

// hasAESExtra walks the entry's extra-field records looking for the AES tag.
func hasAESExtra(extra []byte) bool {
	for len(extra) >= 4 {
		tag := binary.LittleEndian.Uint16(extra[0:2])
		size := int(binary.LittleEndian.Uint16(extra[2:4]))
		if tag == aesExtraTag {
			return true
		}
		if 4+size > len(extra) {
			return false
		}
		extra = extra[4+size:]
	}
	return false
}

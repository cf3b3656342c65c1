package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWrongPassword marks an authentication failure while decrypting an
	// archive. It must survive recursion unmodified so the caller holding the
	// credential prompt can reprompt instead of silently skipping.
	ErrWrongPassword = errors.New("wrong password")
	// ErrCorruptedArchive marks an archive whose central directory cannot be
	// parsed. Unrecoverable; the archive is skipped.
	ErrCorruptedArchive = errors.New("corrupted archive")
	// ErrEncryptedNoPassword marks an encrypted archive skipped because no
	// credential was supplied. A soft skip, not a failure.
	ErrEncryptedNoPassword = errors.New("encrypted archive, no password")
	// ErrDepthExceeded marks an archive skipped because it sits below the
	// nesting depth bound.
	ErrDepthExceeded = errors.New("nesting depth exceeded")
	// ErrExtraction marks a generic, non-fatal extraction failure.
	ErrExtraction = errors.New("extraction failure")
	// ErrNoCandidates is the terminal condition for a run that produced no
	// parsable study records at all.
	ErrNoCandidates = errors.New("no studies found")
	// ErrNoValidPatients is the terminal condition for a run whose records all
	// lacked usable patient identification.
	ErrNoValidPatients = errors.New("no identifiable patients")
	// ErrTimeout marks a bounded wait that expired (external tool run,
	// credential handoff).
	ErrTimeout = errors.New("timeout")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExtraction
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsSoftSkip reports whether err represents a per-archive condition that the
// run absorbs without failing.
func IsSoftSkip(err error) bool {
	return errors.Is(err, ErrCorruptedArchive) ||
		errors.Is(err, ErrEncryptedNoPassword) ||
		errors.Is(err, ErrDepthExceeded) ||
		errors.Is(err, ErrExtraction)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Package sevenzip wraps the optional 7-Zip executable used as the
// performance fast path for encrypted archive extraction.
//
// The binary is discovered from a short list of well-known install locations
// plus the execution PATH; its absence is never fatal, it only disables the
// fast path. Authentication failures reported by the tool are surfaced as
// the distinguished wrong-password error so callers can reprompt instead of
// falling back blindly.
package sevenzip

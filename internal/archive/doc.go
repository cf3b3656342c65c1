// Package archive extracts (possibly nested, possibly encrypted) zip
// archives into run-scoped scratch directories and harvests study records
// from their contents.
//
// Encryption is classified from the central directory alone, without
// decompressing any payload. Encrypted archives are extracted through a
// two-tier strategy: an external 7-Zip subprocess when one is available,
// then the built-in codec. A wrong password is the only failure that
// crosses the recursion unmodified; everything else is a soft skip. Every
// invocation owns exactly one scratch directory and removes it on every
// exit path.
package archive

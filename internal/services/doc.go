// Package services defines shared utilities consumed by the scan pipeline and
// external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and the active archive for logging.
//   - Structured error markers plus the Wrap helper so every failure class
//     (wrong password, corrupted archive, depth exceeded, ...) is checked with
//     errors.Is rather than string matching.
//
// Use these helpers when wiring new scan logic so operational behaviour stays
// uniform across the pipeline.
package services

// Package patient folds raw study records into a deduplicated
// patient/study/series registry.
//
// Matching is ID-first: records sharing a PatientID always land in the same
// entry. Records without an ID match fall back to order-insensitive
// normalized-name comparison, vetoed when both sides carry known but
// different birth dates. The registry preserves insertion order so repeated
// merges over the same input produce identical results.
package patient

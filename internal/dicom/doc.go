// Package dicom classifies candidate DICOM files and extracts normalized
// study metadata from their headers.
//
// Classification is a cheap sniff: size floor, extension deny-list, and the
// DICM magic token at offset 128, with a tolerant full-header parse as the
// fallback. Extraction reads header fields only (no pixel payload) and
// caches results per absolute path in a bounded LRU so re-validation passes
// within one run stay cheap. Neither operation ever surfaces an error to the
// caller; unparsable files simply yield nothing.
package dicom

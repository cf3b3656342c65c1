// Command study-aggregator scans a directory or zip archive for DICOM study
// files and prints a per-patient summary of the studies and series found.
package main

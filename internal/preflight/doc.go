// Package preflight validates the runtime environment before a scan:
// directory access, external extractor availability, scratch free space,
// and the effective worker count.
package preflight

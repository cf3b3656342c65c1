// Package journal persists per-archive scan outcomes to a local SQLite
// database for after-the-fact diagnostics. The journal is append-only and
// advisory: the aggregation result never depends on it, and a disabled or
// failing journal only costs the diagnostic trail.
//
// A file lock beside the database keeps concurrent scanner processes from
// interleaving writes.
package journal

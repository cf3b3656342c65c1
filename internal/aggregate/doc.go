// Package aggregate orchestrates a scan run: it enumerates archives and
// loose candidate files beneath an input path, acquires a shared credential
// when any archive needs one, drives archive extraction sequentially with
// file-level parallelism inside each archive, and folds the resulting
// records into the final patient registry.
//
// Credential acquisition is modeled as an explicit one-shot request/response
// handoff with a bounded wait; the consumer (CLI, GUI, test) services the
// request channel. Progress updates are coarse and advisory; consumers may
// ignore them.
package aggregate

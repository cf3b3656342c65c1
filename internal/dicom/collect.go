package dicom

import (
	"context"
	"sync"

	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
)

// Collect classifies and extracts the given files on a bounded worker pool
// and returns the records that parsed. Classification and extraction are
// independent per file; results are appended under a single lock once each
// file finishes, so the returned order follows pool completion, not input
// order.
//
// source is recorded as each record's provenance; when empty, the file's own
// path is used (loose files).
func Collect(ctx context.Context, extractor *Extractor, paths []string, workers int, source string) []patient.Record {
	if len(paths) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var records []patient.Record
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if !IsCandidate(path) {
					continue
				}
				record, ok := extractor.Extract(path)
				if !ok {
					continue
				}
				if source != "" {
					record.SourcePath = source
				}
				mu.Lock()
				records = append(records, record)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return records
}

package patient

import (
	"log/slog"
	"strings"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
)

// Merge folds records into a deduplicated registry, in input order.
//
// For each record: an exact PatientID match wins; otherwise the first
// existing entry whose normalized name matches and whose DOB does not
// conflict (both known, different) is reused; otherwise a new entry is
// created. A known DOB backfills an Unknown one, never the reverse.
// Entries with no usable identification at all are dropped at the end.
//
// When two different patients share a normalized name and one side has no
// DOB, the first entry in insertion order absorbs the record. That ambiguity
// is inherent to the inputs and is deliberately left unresolved.
func Merge(records []Record, logger *slog.Logger) *Registry {
	logger = logging.NewComponentLogger(logger, "merge")
	registry := NewRegistry()

	logger.Debug("merging records", logging.Int("record_count", len(records)))

	for _, record := range records {
		key := findTarget(registry, record)
		if key == "" {
			key = mergeKey(record)
			// Unknown-name records never name-match, so two of them with the
			// same DOB land on the same composite key. Reuse the entry rather
			// than clobbering it.
			if _, exists := registry.Lookup(key); !exists {
				entry := &Entry{
					PatientID:   strings.TrimSpace(record.PatientID),
					PatientName: fallbackOr(record.PatientName),
					PatientDOB:  fallbackOr(record.PatientDOB),
				}
				registry.add(key, entry)
				logger.Debug("new patient entry", logging.String("merge_key", key))
			}
		}

		entry, _ := registry.Lookup(key)
		if record.PatientDOB != Unknown && record.PatientDOB != "" && entry.PatientDOB == Unknown {
			entry.PatientDOB = record.PatientDOB
		}

		study := entry.Study(record.StudyKey(), record.StudyDate, record.StudyDescription)
		study.AddSeries(record.SeriesKey())
	}

	filtered := 0
	for _, key := range registry.Keys() {
		entry, ok := registry.Lookup(key)
		if ok && entry.AllUnknown() {
			registry.remove(key)
			filtered++
		}
	}
	if filtered > 0 {
		logger.Info("filtered unidentifiable patients",
			logging.Int("filtered_count", filtered),
			logging.Int("remaining", registry.Len()))
	}

	for _, entry := range registry.Entries() {
		logger.Debug("merged patient",
			logging.String("patient_name", entry.PatientName),
			logging.String("patient_id", entry.PatientID),
			logging.Int("study_count", entry.StudyCount()))
	}

	return registry
}

func findTarget(registry *Registry, record Record) string {
	id := strings.TrimSpace(record.PatientID)
	if id != "" {
		for _, key := range registry.Keys() {
			entry, _ := registry.Lookup(key)
			if entry.PatientID == id {
				return key
			}
		}
	}

	for _, key := range registry.Keys() {
		entry, _ := registry.Lookup(key)
		if !NamesMatch(record.PatientName, entry.PatientName) {
			continue
		}
		// Same name but two different known birth dates is a hard
		// conflict: these are different people.
		if dobConflict(record.PatientDOB, entry.PatientDOB) {
			continue
		}
		return key
	}
	return ""
}

func dobConflict(a, b string) bool {
	aKnown := a != "" && a != Unknown
	bKnown := b != "" && b != Unknown
	return aKnown && bKnown && a != b
}

func mergeKey(record Record) string {
	id := strings.TrimSpace(record.PatientID)
	if id == "" {
		id = "NO_ID"
	}
	return fallbackOr(record.PatientName) + "_" + fallbackOr(record.PatientDOB) + "_" + id
}

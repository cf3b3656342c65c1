package patient

import (
	"reflect"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
)

func record(id, name, dob, studyUID, seriesUID string) Record {
	return Record{
		PatientID:         id,
		PatientName:       name,
		PatientDOB:        dob,
		StudyUID:          studyUID,
		StudyDate:         "06-15-2023",
		StudyDescription:  "CT CHEST",
		SeriesUID:         seriesUID,
		SeriesDescription: "Axial",
	}
}

func TestMergeGroupsByPatientID(t *testing.T) {
	records := []Record{
		record("123", "DOE^JOHN", "01-02-1980", "1.2.3", "1.2.3.1"),
		record("123", "John Doe", "01-02-1980", "1.2.4", "1.2.4.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 1 {
		t.Fatalf("expected 1 patient, got %d", registry.Len())
	}
	entry := registry.Entries()[0]
	if entry.StudyCount() != 2 {
		t.Fatalf("expected 2 studies, got %d", entry.StudyCount())
	}
}

func TestMergeMatchesReorderedNamesWithoutID(t *testing.T) {
	records := []Record{
		record("", "SMITH^JANE", "03-04-1975", "1.1", "1.1.1"),
		record("", "Jane Smith", "03-04-1975", "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 1 {
		t.Fatalf("expected reordered names to merge, got %d entries", registry.Len())
	}
}

func TestMergeDOBConflictKeepsPatientsSeparate(t *testing.T) {
	records := []Record{
		record("", "SMITH^JANE", "03-04-1975", "1.1", "1.1.1"),
		record("", "Jane Smith", "05-06-1990", "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 2 {
		t.Fatalf("conflicting DOBs must not merge; got %d entries", registry.Len())
	}
}

func TestMergeBackfillsUnknownDOB(t *testing.T) {
	records := []Record{
		record("77", "DOE^JOHN", Unknown, "1.1", "1.1.1"),
		record("77", "DOE^JOHN", "01-02-1980", "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	entry := registry.Entries()[0]
	if entry.PatientDOB != "01-02-1980" {
		t.Fatalf("expected DOB backfill, got %q", entry.PatientDOB)
	}
}

func TestMergeNeverOverwritesKnownDOB(t *testing.T) {
	records := []Record{
		record("77", "DOE^JOHN", "01-02-1980", "1.1", "1.1.1"),
		record("77", "DOE^JOHN", Unknown, "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if got := registry.Entries()[0].PatientDOB; got != "01-02-1980" {
		t.Fatalf("known DOB changed to %q", got)
	}
}

func TestMergeDeduplicatesSeriesWithinStudy(t *testing.T) {
	records := []Record{
		record("9", "DOE^JOHN", Unknown, "1.1", "1.1.1"),
		record("9", "DOE^JOHN", Unknown, "1.1", "1.1.1"),
		record("9", "DOE^JOHN", Unknown, "1.1", "1.1.2"),
	}
	registry := Merge(records, logging.NewNop())
	entry := registry.Entries()[0]
	if entry.StudyCount() != 1 {
		t.Fatalf("expected 1 study, got %d", entry.StudyCount())
	}
	if got := entry.Studies()[0].SeriesCount(); got != 2 {
		t.Fatalf("expected 2 distinct series, got %d", got)
	}
}

func TestMergeFiltersUnidentifiablePatients(t *testing.T) {
	records := []Record{
		record("", Unknown, Unknown, "1.1", "1.1.1"),
		record("42", "DOE^JOHN", Unknown, "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 1 {
		t.Fatalf("expected unidentifiable patient to be dropped, got %d entries", registry.Len())
	}
	if registry.Entries()[0].PatientID != "42" {
		t.Fatal("wrong entry survived filtering")
	}
}

func TestMergeCollapsesDuplicateUnidentifiableRecords(t *testing.T) {
	// Unknown names never name-match, so these two share a composite merge
	// key. Both must land on one entry, and filtering must drop it cleanly.
	records := []Record{
		record("", Unknown, Unknown, "1.1", "1.1.1"),
		record("", Unknown, Unknown, "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 0 {
		t.Fatalf("expected all entries filtered, got %d", registry.Len())
	}
	if got := len(registry.Entries()); got != 0 {
		t.Fatalf("Entries() disagrees with Len(): %d entries", got)
	}
	if got := len(registry.Keys()); got != 0 {
		t.Fatalf("Keys() retains stale keys: %v", registry.Keys())
	}
}

func TestMergeCompositeKeyCollisionKeepsAllStudies(t *testing.T) {
	records := []Record{
		record("", Unknown, "01-02-1980", "1.1", "1.1.1"),
		record("", Unknown, "01-02-1980", "1.2", "1.2.1"),
	}
	registry := Merge(records, logging.NewNop())
	if registry.Len() != 1 {
		t.Fatalf("expected 1 patient, got %d", registry.Len())
	}
	entries := registry.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() disagrees with Len(): %d entries", len(entries))
	}
	if got := entries[0].StudyCount(); got != 2 {
		t.Fatalf("expected both studies on the merged patient, got %d", got)
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	records := []Record{
		record("1", "A^B", Unknown, "1.1", "1.1.1"),
		record("", "C^D", "01-01-1990", "1.2", "1.2.1"),
		record("1", "B A", Unknown, "1.3", "1.3.1"),
	}
	first := Merge(records, logging.NewNop())
	second := Merge(records, logging.NewNop())
	if !reflect.DeepEqual(first.Keys(), second.Keys()) {
		t.Fatalf("merge order differs: %v vs %v", first.Keys(), second.Keys())
	}
	if first.Len() != second.Len() {
		t.Fatalf("merge result size differs: %d vs %d", first.Len(), second.Len())
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
)

func testRegistry(t *testing.T) *patient.Registry {
	t.Helper()
	records := []patient.Record{
		{
			PatientID: "102", PatientName: "ZIMMER^PAUL", PatientDOB: "01-02-1980",
			StudyUID: "1.1", StudyDate: "06-15-2023", StudyDescription: "CT CHEST",
			SeriesUID: "1.1.1", SeriesDescription: "Axial",
		},
		{
			PatientID: "9", PatientName: "ADAMS^AMY", PatientDOB: "03-04-1990",
			StudyUID: "2.1", StudyDate: "01-01-2022", StudyDescription: "MR BRAIN",
			SeriesUID: "2.1.1", SeriesDescription: "Sag",
		},
		{
			PatientID: "9", PatientName: "ADAMS^AMY", PatientDOB: "03-04-1990",
			StudyUID: "2.1", StudyDate: "01-01-2022", StudyDescription: "MR BRAIN",
			SeriesUID: "2.1.2", SeriesDescription: "Cor",
		},
	}
	return patient.Merge(records, logging.NewNop())
}

func TestSortedEntriesOrdersNumericIDs(t *testing.T) {
	entries := sortedEntries(testRegistry(t))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PatientID != "9" || entries[1].PatientID != "102" {
		t.Fatalf("expected numeric ordering 9 before 102, got %s then %s",
			entries[0].PatientID, entries[1].PatientID)
	}
}

func TestPaddedID(t *testing.T) {
	if paddedID("9") >= paddedID("102") {
		t.Fatal("padding should order 9 before 102")
	}
	if paddedID("ABC-123") != "000ABC-123" {
		t.Fatalf("unexpected padding: %q", paddedID("ABC-123"))
	}
}

func TestRenderReportIncludesStudyLines(t *testing.T) {
	out := renderReport(testRegistry(t))
	for _, fragment := range []string{"ADAMS AMY", "ZIMMER PAUL", "01-01-2022 MR BRAIN (2 series)", "06-15-2023 CT CHEST (1 series)"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("report missing %q:\n%s", fragment, out)
		}
	}
}

func TestWriteJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSONReport(&buf, testRegistry(t)); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var payload struct {
		Patients []struct {
			PatientID string `json:"patient_id"`
			Name      string `json:"name"`
			Studies   []struct {
				Series int `json:"series"`
			} `json:"studies"`
		} `json:"patients"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if len(payload.Patients) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(payload.Patients))
	}
	if payload.Patients[0].PatientID != "9" {
		t.Fatalf("expected patient 9 first, got %s", payload.Patients[0].PatientID)
	}
	if payload.Patients[0].Studies[0].Series != 2 {
		t.Fatalf("expected 2 series, got %d", payload.Patients[0].Studies[0].Series)
	}
}

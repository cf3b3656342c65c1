package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
)

// idPadWidth left-pads patient IDs so numeric IDs sort naturally next to
// alphanumeric ones.
const idPadWidth = 10

func sortedEntries(registry *patient.Registry) []*patient.Entry {
	entries := registry.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := paddedID(entries[i].PatientID), paddedID(entries[j].PatientID)
		if left != right {
			return left < right
		}
		return strings.ToLower(entries[i].PatientName) < strings.ToLower(entries[j].PatientName)
	})
	return entries
}

func paddedID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= idPadWidth {
		return id
	}
	return strings.Repeat("0", idPadWidth-len(id)) + id
}

func studyLine(study *patient.Study) string {
	return fmt.Sprintf("%s %s (%d series)", study.Date, study.Description, study.SeriesCount())
}

// renderReport formats the registry as the per-patient summary table.
func renderReport(registry *patient.Registry) string {
	rows := make([][]string, 0, registry.Len())
	for _, entry := range sortedEntries(registry) {
		lines := make([]string, 0, entry.StudyCount())
		for _, study := range entry.Studies() {
			lines = append(lines, studyLine(study))
		}
		rows = append(rows, []string{
			displayOr(entry.PatientID, "NO_ID"),
			displayOr(entry.PatientName, patient.Unknown),
			displayOr(entry.PatientDOB, patient.Unknown),
			strings.Join(lines, "\n"),
		})
	}
	return renderTable([]tableColumn{
		{header: "Patient ID"},
		{header: "Name"},
		{header: "DOB"},
		{header: "Studies", maxWidth: 60},
	}, rows)
}

func displayOr(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

type reportStudy struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Series      int    `json:"series"`
}

type reportPatient struct {
	PatientID string        `json:"patient_id"`
	Name      string        `json:"name"`
	DOB       string        `json:"dob"`
	Studies   []reportStudy `json:"studies"`
}

func writeJSONReport(w io.Writer, registry *patient.Registry) error {
	patients := make([]reportPatient, 0, registry.Len())
	for _, entry := range sortedEntries(registry) {
		studies := make([]reportStudy, 0, entry.StudyCount())
		for _, study := range entry.Studies() {
			studies = append(studies, reportStudy{
				Date:        study.Date,
				Description: study.Description,
				Series:      study.SeriesCount(),
			})
		}
		patients = append(patients, reportPatient{
			PatientID: displayOr(entry.PatientID, "NO_ID"),
			Name:      displayOr(entry.PatientName, patient.Unknown),
			DOB:       displayOr(entry.PatientDOB, patient.Unknown),
			Studies:   studies,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Patients []reportPatient `json:"patients"`
	}{Patients: patients})
}

package patient

import "strings"

// Unknown is the canonical placeholder for absent name, date, and
// description fields.
const Unknown = "Unknown"

// Record is one successfully parsed study file header, normalized and
// immutable. SourcePath records provenance: the archive the file came from,
// or the file itself when loose.
type Record struct {
	PatientID         string
	PatientName       string
	PatientDOB        string
	StudyUID          string
	StudyDate         string
	StudyDescription  string
	SeriesUID         string
	SeriesNumber      string
	SeriesDescription string
	Modality          string
	SourcePath        string
}

// StudyKey returns the grouping key for the record's study: the
// StudyInstanceUID, or a date+description composite when absent.
func (r Record) StudyKey() string {
	if uid := strings.TrimSpace(r.StudyUID); uid != "" {
		return uid
	}
	return fallbackOr(r.StudyDate) + "_" + fallbackOr(r.StudyDescription)
}

// SeriesKey returns the grouping key for the record's series: the
// SeriesInstanceUID, or a number+description composite when absent.
func (r Record) SeriesKey() string {
	if uid := strings.TrimSpace(r.SeriesUID); uid != "" {
		return uid
	}
	return fallbackOr(r.SeriesNumber) + "_" + fallbackOr(r.SeriesDescription)
}

func fallbackOr(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return Unknown
}

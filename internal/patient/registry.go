package patient

import "strings"

// Study groups the series observed under one StudyInstanceUID (or its
// composite fallback). The series set only ever grows.
type Study struct {
	Date        string
	Description string
	seriesOrder []string
	series      map[string]struct{}
}

// AddSeries unions a series key into the study.
func (s *Study) AddSeries(key string) {
	if s.series == nil {
		s.series = make(map[string]struct{})
	}
	if _, ok := s.series[key]; ok {
		return
	}
	s.series[key] = struct{}{}
	s.seriesOrder = append(s.seriesOrder, key)
}

// SeriesCount returns the number of distinct series in the study.
func (s *Study) SeriesCount() int {
	return len(s.series)
}

// SeriesKeys returns the series keys in first-seen order.
func (s *Study) SeriesKeys() []string {
	return append([]string(nil), s.seriesOrder...)
}

// Entry is one deduplicated patient. DOB moves only from Unknown to a known
// value; studies and series only accumulate.
type Entry struct {
	PatientID   string
	PatientName string
	PatientDOB  string
	studyOrder  []string
	studies     map[string]*Study
}

// Study returns the study for key, creating it with the provided date and
// description on first sight.
func (e *Entry) Study(key, date, description string) *Study {
	if e.studies == nil {
		e.studies = make(map[string]*Study)
	}
	if study, ok := e.studies[key]; ok {
		return study
	}
	study := &Study{Date: fallbackOr(date), Description: fallbackOr(description)}
	e.studies[key] = study
	e.studyOrder = append(e.studyOrder, key)
	return study
}

// Studies returns the patient's studies in first-seen order.
func (e *Entry) Studies() []*Study {
	out := make([]*Study, 0, len(e.studyOrder))
	for _, key := range e.studyOrder {
		out = append(out, e.studies[key])
	}
	return out
}

// StudyCount returns the number of distinct studies for the patient.
func (e *Entry) StudyCount() int {
	return len(e.studies)
}

// AllUnknown reports whether the entry carries no usable identification:
// ID, name, and DOB simultaneously empty or Unknown.
func (e *Entry) AllUnknown() bool {
	idUnknown := strings.TrimSpace(e.PatientID) == ""
	name := strings.TrimSpace(e.PatientName)
	nameUnknown := name == "" || name == Unknown
	dob := strings.TrimSpace(e.PatientDOB)
	dobUnknown := dob == "" || dob == Unknown
	return idUnknown && nameUnknown && dobUnknown
}

// Registry is the insertion-ordered set of merged patients. It is built once
// per run and read-only afterwards.
type Registry struct {
	order   []string
	entries map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

func (r *Registry) add(key string, entry *Entry) {
	if _, ok := r.entries[key]; !ok {
		r.order = append(r.order, key)
	}
	r.entries[key] = entry
}

func (r *Registry) remove(key string) {
	if _, ok := r.entries[key]; !ok {
		return
	}
	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of patients in the registry.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns the merge keys in insertion order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Entries returns the patients in insertion order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Lookup returns the entry for a merge key.
func (r *Registry) Lookup(key string) (*Entry, bool) {
	entry, ok := r.entries[key]
	return entry, ok
}

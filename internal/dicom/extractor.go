package dicom

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/patient"
)

// DefaultCacheSize bounds the extraction cache when no size is configured.
const DefaultCacheSize = 2000

// Extractor parses study metadata from DICOM headers, caching results per
// absolute path. The cache is owned by the extractor and scoped to one run;
// construct a fresh extractor per scan for deterministic behaviour.
type Extractor struct {
	cache  *lru.Cache[string, patient.Record]
	logger *slog.Logger
}

// NewExtractor builds an extractor with a bounded result cache.
func NewExtractor(cacheSize int, logger *slog.Logger) *Extractor {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, patient.Record](cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(fmt.Sprintf("dicom: cache size %d: %v", cacheSize, err))
	}
	return &Extractor{
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "extract"),
	}
}

// Extract reads the header fields of a DICOM file into a normalized record.
// The second return value is false when the file could not be parsed; parse
// failures never propagate as errors.
func (e *Extractor) Extract(path string) (patient.Record, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if record, ok := e.cache.Get(abs); ok {
		return record, true
	}

	record, ok := e.extract(abs)
	if !ok {
		return patient.Record{}, false
	}
	e.cache.Add(abs, record)
	return record, true
}

// CacheLen returns the number of cached records.
func (e *Extractor) CacheLen() int {
	return e.cache.Len()
}

func (e *Extractor) extract(path string) (record patient.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("parser panic treated as unparsable",
				logging.String("path", path),
				logging.Any("panic", r))
			record, ok = patient.Record{}, false
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		e.logger.Debug("open failed", logging.String("path", path), logging.Error(err))
		return patient.Record{}, false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.Size() < minFileSize {
		return patient.Record{}, false
	}

	ds, err := dicom.Parse(file, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		e.logger.Debug("unparsable file", logging.String("path", path), logging.Error(err))
		return patient.Record{}, false
	}

	record = patient.Record{
		PatientID:   tagString(&ds, tag.PatientID),
		PatientName: patient.CleanName(tagString(&ds, tag.PatientName)),
		PatientDOB:  FormatCompactDate(tagString(&ds, tag.PatientBirthDate)),
		StudyUID:    tagString(&ds, tag.StudyInstanceUID),
		StudyDate:   FormatCompactDate(tagString(&ds, tag.StudyDate)),
		SeriesUID:   tagString(&ds, tag.SeriesInstanceUID),
		Modality:    tagString(&ds, tag.Modality),
		SourcePath:  path,
	}
	record.SeriesNumber = tagString(&ds, tag.SeriesNumber)
	record.StudyDescription = studyDescription(tagString(&ds, tag.StudyDescription))
	record.SeriesDescription = seriesDescription(tagString(&ds, tag.SeriesDescription), record.SeriesNumber)

	if record.StudyDescription == "Study" || record.PatientName == patient.Unknown {
		e.logger.Debug("record with missing identification",
			logging.String("path", path),
			logging.String("patient_name", record.PatientName),
			logging.String("patient_id", record.PatientID))
	}

	return record, true
}

func studyDescription(value string) string {
	if value != "" {
		return value
	}
	return "Study"
}

func seriesDescription(value, number string) string {
	if value != "" {
		return value
	}
	if number != "" {
		return "Series " + number
	}
	return "Unknown Series"
}

// FormatCompactDate converts the 8-digit compact DICOM date form (YYYYMMDD)
// to MM-DD-YYYY. Any other length is irrecoverable and maps to Unknown.
func FormatCompactDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		return patient.Unknown
	}
	return value[4:6] + "-" + value[6:8] + "-" + value[0:4]
}

// tagString reads one tag from the dataset as a trimmed string, tolerating
// the value kinds the parser produces for the header tags we care about.
func tagString(ds *dicom.Dataset, t tag.Tag) string {
	element, err := ds.FindElementByTag(t)
	if err != nil || element.Value == nil {
		return ""
	}
	switch v := element.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	case string:
		return strings.TrimSpace(v)
	case []int:
		if len(v) > 0 {
			return strconv.Itoa(v[0])
		}
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

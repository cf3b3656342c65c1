package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// StudySpec describes one synthetic DICOM instance. Zero-valued fields are
// omitted from the dataset so tests can exercise missing-tag fallbacks.
type StudySpec struct {
	PatientName       string
	PatientID         string
	BirthDate         string
	StudyUID          string
	StudyDate         string
	StudyDescription  string
	SeriesUID         string
	SeriesNumber      int
	SeriesDescription string
	Modality          string
}

// DICOMBytes renders spec as a valid explicit-VR little-endian DICOM stream,
// preamble and meta group included.
func DICOMBytes(t testing.TB, spec StudySpec) []byte {
	t.Helper()

	var elements []*dicom.Element
	add := func(tg tag.Tag, value any) {
		elem, err := dicom.NewElement(tg, value)
		if err != nil {
			t.Fatalf("build element %v: %v", tg, err)
		}
		elements = append(elements, elem)
	}

	// Secondary Capture SOP class; any valid UID satisfies the writer.
	add(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.7"})
	add(tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.1"})
	add(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"})

	if spec.PatientName != "" {
		add(tag.PatientName, []string{spec.PatientName})
	}
	if spec.PatientID != "" {
		add(tag.PatientID, []string{spec.PatientID})
	}
	if spec.BirthDate != "" {
		add(tag.PatientBirthDate, []string{spec.BirthDate})
	}
	if spec.StudyUID != "" {
		add(tag.StudyInstanceUID, []string{spec.StudyUID})
	}
	if spec.StudyDate != "" {
		add(tag.StudyDate, []string{spec.StudyDate})
	}
	if spec.StudyDescription != "" {
		add(tag.StudyDescription, []string{spec.StudyDescription})
	}
	if spec.SeriesUID != "" {
		add(tag.SeriesInstanceUID, []string{spec.SeriesUID})
	}
	if spec.SeriesNumber != 0 {
		// SeriesNumber's VR is IS (integer string); the writer requires a
		// Strings value for it.
		add(tag.SeriesNumber, []string{strconv.Itoa(spec.SeriesNumber)})
	}
	if spec.SeriesDescription != "" {
		add(tag.SeriesDescription, []string{spec.SeriesDescription})
	}
	if spec.Modality != "" {
		add(tag.Modality, []string{spec.Modality})
	}

	var buf bytes.Buffer
	if err := dicom.Write(&buf, dicom.Dataset{Elements: elements}); err != nil {
		t.Fatalf("write dicom stream: %v", err)
	}
	return buf.Bytes()
}

// WriteDICOM writes spec as a DICOM file at path, creating parents.
func WriteDICOM(t testing.TB, path string, spec StudySpec) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, DICOMBytes(t, spec), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

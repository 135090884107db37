package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"coerce/internal/conformance"
	"coerce/internal/observ"
)

// SchemaVersion is bumped whenever Document changes shape.
const SchemaVersion uint16 = 1

// Format selects a machine report encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported report extension %q (expected .json, .mp or .msgpack)", filepath.Ext(path))
	}
}

// Document is the persisted form of a run.
type Document struct {
	Schema    uint16               `json:"schema" msgpack:"schema"`
	Tool      string               `json:"tool" msgpack:"tool"`
	Version   string               `json:"version" msgpack:"version"`
	Generated time.Time            `json:"generated" msgpack:"generated"`
	FileCount uint32               `json:"file_count" msgpack:"file_count"`
	CaseCount uint32               `json:"case_count" msgpack:"case_count"`
	Summary   *conformance.Summary `json:"summary" msgpack:"summary"`
	Timings   *observ.Report       `json:"timings,omitempty" msgpack:"timings,omitempty"`
}

// NewDocument wraps a summary with report metadata.
func NewDocument(sum *conformance.Summary, version string) (*Document, error) {
	files, err := safecast.Conv[uint32](len(sum.Files))
	if err != nil {
		return nil, fmt.Errorf("report: file count: %w", err)
	}
	total := 0
	for i := range sum.Files {
		total += len(sum.Files[i].Cases)
	}
	cases, err := safecast.Conv[uint32](total)
	if err != nil {
		return nil, fmt.Errorf("report: case count: %w", err)
	}
	return &Document{
		Schema:    SchemaVersion,
		Tool:      "coerce",
		Version:   version,
		Generated: time.Now().UTC(),
		FileCount: files,
		CaseCount: cases,
		Summary:   sum,
	}, nil
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Decode reads a document written by Encode and checks its schema.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if doc.Schema != SchemaVersion {
		return nil, fmt.Errorf("report schema %d, expected %d", doc.Schema, SchemaVersion)
	}
	return &doc, nil
}

// WriteFile encodes doc to path, choosing the format by extension. The file
// is replaced atomically.
func WriteFile(path string, doc *Document) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := Encode(f, doc, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

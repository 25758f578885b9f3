// Package export renders test cases in the five-column layout accepted by
// the Testmo CSV importer.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hairizuan-noorazman/std-generator/testcase"
)

const (
	// FileName is the suggested download name for an export.
	FileName = "testmo_import.csv"

	// ContentType is the MIME type of an export.
	ContentType = "text/csv"
)

// Header lists the export columns in order.
var Header = []string{"Title", "Steps", "Expected", "Folder", "Tags"}

// Row is one exported test case.
type Row struct {
	Title    string
	Steps    string
	Expected string
	Folder   string
	Tags     string
}

// NewRow derives an export row from a test case. Steps are joined with
// newlines and tags with commas; values already containing those separators
// are not escaped beyond normal CSV quoting.
func NewRow(tc testcase.TestCase, folder string) Row {
	return Row{
		Title:    tc.Title,
		Steps:    strings.Join(tc.Steps, "\n"),
		Expected: tc.Expected,
		Folder:   folder,
		Tags:     strings.Join(tc.Tags, ","),
	}
}

// Record returns the row as CSV fields in Header order.
func (r Row) Record() []string {
	return []string{r.Title, r.Steps, r.Expected, r.Folder, r.Tags}
}

// WriteCSV writes the header followed by one row per test case, in order.
func WriteCSV(w io.Writer, cases []testcase.TestCase, folder string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, tc := range cases {
		if err := cw.Write(NewRow(tc, folder).Record()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Render returns the CSV export as bytes.
func Render(cases []testcase.TestCase, folder string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, cases, folder); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

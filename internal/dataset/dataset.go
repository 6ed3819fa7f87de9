package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"autofix/internal/textutil"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RequiredColumns lists the header names every input table must carry.
var RequiredColumns = []string{"year", "make", "model", "problem"}

const utf8BOM = "\ufeff"

// Row is one vehicle and symptom pair. One row produces exactly one page.
type Row struct {
	Year    string
	Make    string
	Model   string
	Problem string
}

// Vehicle renders the "{year} {make} {model}" label used across page text.
func (r Row) Vehicle() string {
	return r.Year + " " + r.Make + " " + r.Model
}

// Load opens path and reads all rows.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read parses CSV from r. Extra columns are ignored; blank lines are skipped.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blank(record) {
			continue
		}
		rows = append(rows, Row{
			Year:    cell(record, index["year"]),
			Make:    cell(record, index["make"]),
			Model:   cell(record, index["model"]),
			Problem: cell(record, index["problem"]),
		})
	}
	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	for _, required := range RequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return index, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return textutil.StripMarkup(record[i])
}

func blank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

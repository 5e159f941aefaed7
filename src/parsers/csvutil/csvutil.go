// backend/src/parsers/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Accepted date layouts, tried in order. Slash dates are read month first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"2006-01-02T15:04:05Z07:00",
}

// Table is a CSV file with its header resolved to column indexes.
type Table struct {
	columns map[string]int
	Rows    [][]string
}

// Read loads a whole CSV file. Header names are matched case-insensitively with
// spaces and dashes folded to underscores. A UTF-8 BOM on the first cell is ignored.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: file is empty")
		}
		return nil, fmt.Errorf("csv: failed to read header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: failed to read records: %w", err)
	}

	t := &Table{columns: make(map[string]int, len(header)), Rows: rows}
	for i, name := range header {
		key := NormalizeHeader(name)
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}
	return t, nil
}

// NormalizeHeader folds a header cell into its lookup key.
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// Index returns the column of the first alias present in the header.
func (t *Table) Index(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := t.columns[a]; ok {
			return i, true
		}
	}
	return -1, false
}

// Require is Index that fails with ErrMissingColumn.
func (t *Table) Require(aliases ...string) (int, error) {
	if i, ok := t.Index(aliases...); ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, aliases[0])
}

// Field returns the trimmed cell, or "" when the row is short or the column absent.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// IsBlank reports whether every cell of the row is empty.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseDate tries the accepted layouts. ok is false for empty or unrecognized values.
func ParseDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, true
		}
	}
	return nil, false
}

// Fingerprint derives a stable id for a row without one. The row number is part of the
// input, so identical rows in the same file keep distinct ids while a re-upload of the
// same file reproduces them.
func Fingerprint(source string, rowNumber int, row []string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(rowNumber)))
	for _, cell := range row {
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(cell)))
	}
	return "row-" + hex.EncodeToString(h.Sum(nil))
}

// IDSet tracks the row ids already handed out while reading one file.
type IDSet map[string]struct{}

// Unique returns id the first time it is seen and id#row<N> afterwards, so two rows of one
// file never share an id. The suffix depends only on the row number, which keeps a re-upload
// of the same file mapping onto the same ids.
func (s IDSet) Unique(id string, rowNumber int) string {
	if _, seen := s[id]; seen {
		candidate := fmt.Sprintf("%s#row%d", id, rowNumber)
		for n := 2; ; n++ {
			if _, taken := s[candidate]; !taken {
				break
			}
			candidate = fmt.Sprintf("%s#row%d-%d", id, rowNumber, n)
		}
		id = candidate
	}
	s[id] = struct{}{}
	return id
}

// Package ingest loads a Table from a CSV file or a live database query.
// CSV loading mirrors the original's getSepNaive: sniff the separator by
// trying a short list of candidates against the header line and picking
// the first one that splits it into more than one field, then hand the
// rest of the parse to encoding/csv with that separator.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"anonaudit/internal/model"
)

// candidate separators, tried in this order — tab and semicolon before
// comma, since a tab- or semicolon-separated header can contain commas
// inside its field names and must still be read with its own separator.
var sepCandidates = []rune{'\t', ';', ','}

// SniffSeparator takes the header line and returns the first candidate
// separator that splits it into more than one field, falling back to
// comma if none do (a single-column file is still valid CSV).
func SniffSeparator(header string) rune {
	for _, sep := range sepCandidates {
		if strings.Count(header, string(sep)) > 0 {
			return sep
		}
	}
	return ','
}

// LoadCSV reads path, sniffs its separator from the header line, and
// parses it into a Table named after the base file name. Column types
// are inferred per column: a column whose every non-empty cell parses as
// an integer is KindInt, every non-empty cell parses as a float is
// KindReal, otherwise KindStr; empty cells become KindNull.
func LoadCSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	headerLine, err := br.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, fmt.Errorf("ingest: reading header: %w", err)
	}
	sep := SniffSeparator(headerLine)

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ingest: %s has no rows", path)
	}

	columns := records[0]
	raw := make(map[string][]string, len(columns))
	for _, col := range columns {
		raw[col] = make([]string, 0, len(records)-1)
	}
	for _, row := range records[1:] {
		for i, col := range columns {
			if i < len(row) {
				raw[col] = append(raw[col], row[i])
			} else {
				raw[col] = append(raw[col], "")
			}
		}
	}

	data := make(map[string][]model.Cell, len(columns))
	for _, col := range columns {
		data[col] = inferColumn(raw[col])
	}

	return model.NewTable(baseName(path), columns, data)
}

func inferColumn(values []string) []model.Cell {
	allInt, allReal := true, true
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allReal = false
		}
	}

	cells := make([]model.Cell, len(values))
	for i, v := range values {
		switch {
		case v == "":
			cells[i] = model.NullCell
		case allInt:
			n, _ := strconv.ParseInt(v, 10, 64)
			cells[i] = model.IntCell(n)
		case allReal:
			n, _ := strconv.ParseFloat(v, 64)
			cells[i] = model.RealCell(n)
		default:
			cells[i] = model.StrCell(v)
		}
	}
	return cells
}

func baseName(path string) string {
	s := path
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return s
}

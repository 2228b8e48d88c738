// Package model defines the in-memory tabular representation every
// component in the engine operates on: a typed Cell variant and the Table
// that holds columns of them. Ingestion adapters (CSV, MySQL, Postgres)
// are the only code that constructs a Table from the outside world; every
// downstream component only ever reads one.
package model

import (
	"fmt"
	"strconv"
)

// Kind tags the dynamic type carried by a Cell.
type Kind string

const (
	KindInt  Kind = "int"
	KindReal Kind = "real"
	KindStr  Kind = "str"
	KindNull Kind = "null"
)

// Cell is a single scalar table value. Exactly one of Int/Real/Str is
// meaningful, selected by Kind; KindNull carries none.
type Cell struct {
	Kind Kind
	Int  int64
	Real float64
	Str  string
}

// NullCell is the zero-valued missing cell.
var NullCell = Cell{Kind: KindNull}

// IntCell constructs an integer-valued cell.
func IntCell(v int64) Cell { return Cell{Kind: KindInt, Int: v} }

// RealCell constructs a real-valued cell.
func RealCell(v float64) Cell { return Cell{Kind: KindReal, Real: v} }

// StrCell constructs a short-string-valued cell.
func StrCell(v string) Cell { return Cell{Kind: KindStr, Str: v} }

// Equal reports whether two cells carry the same kind and value.
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case KindInt:
		return c.Int == other.Int
	case KindReal:
		return c.Real == other.Real
	case KindStr:
		return c.Str == other.Str
	default:
		return true
	}
}

// String renders the cell the way render_conjunction needs it: numerics
// bare, strings single-quoted, null as NULL.
func (c Cell) String() string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindReal:
		return strconv.FormatFloat(c.Real, 'g', -1, 64)
	case KindStr:
		return "'" + c.Str + "'"
	default:
		return "NULL"
	}
}

// RawString returns the cell's textual content without quoting, used for
// comparisons against the blind token and for hashing/fingerprinting.
func (c Cell) RawString() string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindReal:
		return strconv.FormatFloat(c.Real, 'g', -1, 64)
	case KindStr:
		return c.Str
	default:
		return ""
	}
}

// IsNull reports whether the cell carries no value.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// JSONValue returns the cell's value as a plain Go value suitable for
// encoding/json: int64, float64, string, or nil.
func (c Cell) JSONValue() interface{} {
	switch c.Kind {
	case KindInt:
		return c.Int
	case KindReal:
		return c.Real
	case KindStr:
		return c.Str
	default:
		return nil
	}
}

// Table is a named, ordered sequence of columns, each a same-length
// sequence of cells. Rows are addressed 0..N-1; column names are unique.
type Table struct {
	Name    string
	Columns []string
	data    map[string][]Cell
	rows    int
}

// NewTable builds a Table from column order and per-column data. All
// columns must have equal length; duplicate column names are rejected.
func NewTable(name string, columns []string, data map[string][]Cell) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("model: duplicate column name %q", c)
		}
		seen[c] = true
	}

	rows := -1
	for _, c := range columns {
		col, ok := data[c]
		if !ok {
			return nil, fmt.Errorf("model: missing data for column %q", c)
		}
		if rows == -1 {
			rows = len(col)
		} else if len(col) != rows {
			return nil, fmt.Errorf("model: column %q has %d rows, expected %d", c, len(col), rows)
		}
	}
	if rows == -1 {
		rows = 0
	}

	return &Table{Name: name, Columns: append([]string(nil), columns...), data: data, rows: rows}, nil
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// HasColumn reports whether the given column name exists in the table.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.data[name]
	return ok
}

// Column returns the cells of the given column, or an error if the column
// is absent. Callers that merely want to probe for presence should use
// HasColumn first.
func (t *Table) Column(name string) ([]Cell, error) {
	if t == nil {
		return nil, fmt.Errorf("model: table is nil")
	}
	col, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("model: column %q not found", name)
	}
	return col, nil
}

// Row returns the cells at index i for the given columns, in order.
func (t *Table) Row(i int, columns []string) ([]Cell, error) {
	if i < 0 || i >= t.rows {
		return nil, fmt.Errorf("model: row index %d out of range [0,%d)", i, t.rows)
	}
	out := make([]Cell, len(columns))
	for j, c := range columns {
		col, ok := t.data[c]
		if !ok {
			return nil, fmt.Errorf("model: column %q not found", c)
		}
		out[j] = col[i]
	}
	return out, nil
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// missingTokens are the cell spellings read as missing values, matching the
// NA markers the upstream pandas pipeline writes.
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NA":   {},
	"N/A":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
}

// Table is an immutable in-memory table of string cells. Derived tables
// (filters, projections) share row storage with their source, so callers
// must never modify a slice returned by Row.
type Table struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// NewTable builds a table from a header and rows. Column names must be
// unique and every row must have exactly one cell per column.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.New("table has no columns")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(r), len(columns))
		}
	}
	return &Table{columns: slices.Clone(columns), rows: rows, index: index}, nil
}

// MustTable is NewTable for literals known to be well formed. It panics on error.
func MustTable(columns []string, rows ...[]string) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len is the row count.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Row returns the cells of row i. The slice is shared and must not be modified.
func (t *Table) Row(i int) []string { return t.rows[i] }

// String returns the cell at row i, column col. ok is false when the column
// is unknown or the cell is missing.
func (t *Table) String(i int, col string) (string, bool) {
	c, ok := t.index[col]
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(t.rows[i][c])
	if _, missing := missingTokens[v]; missing {
		return "", false
	}
	return v, true
}

// Float parses the cell at row i, column col as a float.
func (t *Table) Float(i int, col string) (float64, bool) {
	s, ok := t.String(i, col)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Int parses the cell as a whole number, accepting float spellings such as
// "1987.0" that pandas writes for integer columns holding NAs.
func (t *Table) Int(i int, col string) (int, bool) {
	v, ok := t.Float(i, col)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Floats returns the parseable values of col in row order, skipping missing cells.
func (t *Table) Floats(col string) []float64 {
	out := make([]float64, 0, len(t.rows))
	for i := range t.rows {
		if v, ok := t.Float(i, col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Where returns the rows for which keep is true, preserving order.
func (t *Table) Where(keep func(i int) bool) *Table {
	rows := make([][]string, 0, len(t.rows))
	for i, r := range t.rows {
		if keep(i) {
			rows = append(rows, r)
		}
	}
	return &Table{columns: t.columns, rows: rows, index: t.index}
}

// Pick returns the rows at the given indices, in that order.
func (t *Table) Pick(indices []int) *Table {
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = t.rows[idx]
	}
	return &Table{columns: t.columns, rows: rows, index: t.index}
}

// Select projects the table onto the named columns. Unknown columns are an error.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		p, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		idx[i] = p
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, len(idx))
		for j, p := range idx {
			row[j] = r[p]
		}
		rows[i] = row
	}
	return NewTable(cols, rows)
}

// Package table holds the column-oriented numeric store the viewer renders.
package table

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoColumns       = errors.New("table: no columns")
	ErrDuplicateColumn = errors.New("table: duplicate column")
)

// Table is a column-oriented float32 store with named columns.
//
// Column names are kept sorted; that order is the canonical order used for
// Push, iteration and column cycling. Rows are only ever appended.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	data    [][]float32
}

// New creates an empty table. The column names are sorted into canonical
// order and must be unique.
func New(name string, columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}

	return &Table{
		name:    name,
		columns: sorted,
		index:   index,
		data:    make([][]float32, len(sorted)),
	}, nil
}

// Push appends one row. The row holds one value per column in canonical
// order; a width mismatch is a programming error and panics.
func (t *Table) Push(row []float32) {
	if len(row) != len(t.columns) {
		panic(fmt.Sprintf("table: row has %d values, table has %d columns", len(row), len(t.columns)))
	}
	for i, v := range row {
		t.data[i] = append(t.data[i], v)
	}
}

// Get returns the full column. The slice is shared with the table and must
// not be modified.
func (t *Table) Get(column string) ([]float32, bool) {
	i, ok := t.index[column]
	if !ok {
		return nil, false
	}
	return t.data[i], true
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.data[0]) }

func (t *Table) Name() string { return t.name }

// Columns returns the column names in canonical order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Index returns the canonical position of column, or -1.
func (t *Table) Index(column string) int {
	i, ok := t.index[column]
	if !ok {
		return -1
	}
	return i
}

// Next returns the column step positions away from column in canonical
// order, wrapping at both ends.
func (t *Table) Next(column string, step int) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	n := len(t.columns)
	j := ((i+step)%n + n) % n
	return t.columns[j], true
}

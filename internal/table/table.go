// Package table holds the in-memory column model and reads and writes it from
// CSV and XLSX files.
package table

import (
	"fmt"
	"slices"

	"github.com/rotisserie/eris"
)

// Column is a named, ordered sequence of string cells.
type Column struct {
	Name   string
	Values []string
}

// Table is an ordered set of uniquely named columns of equal length.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a Table from a header and row-major records. Duplicate header
// names are suffixed ".1", ".2", and so on. Short rows are padded with empty
// cells; rows longer than the header are rejected.
func New(header []string, records [][]string) (*Table, error) {
	names := dedupeNames(header)
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Values: make([]string, len(records))}
	}

	for r, rec := range records {
		if len(rec) > len(names) {
			return nil, eris.Errorf("table: row %d has %d fields, header has %d", r+1, len(rec), len(names))
		}
		for c := range cols {
			if c < len(rec) {
				cols[c].Values[r] = rec[c]
			}
		}
	}

	return fromColumns(cols, len(records)), nil
}

// FromColumns builds a Table from whole columns. All columns must share one
// length and names must be unique.
func FromColumns(cols ...Column) (*Table, error) {
	rows := 0
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if seen[c.Name] {
			return nil, eris.Errorf("table: duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if i == 0 {
			rows = len(c.Values)
		} else if len(c.Values) != rows {
			return nil, eris.Errorf("table: column %q has %d values, want %d", c.Name, len(c.Values), rows)
		}
	}

	copied := make([]Column, len(cols))
	for i, c := range cols {
		copied[i] = Column{Name: c.Name, Values: slices.Clone(c.Values)}
	}
	return fromColumns(copied, rows), nil
}

func fromColumns(cols []Column, rows int) *Table {
	t := &Table{columns: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. Callers must not modify the values.
func (t *Table) Columns() []Column { return t.columns }

// Values returns the cells of the named column. Callers must not modify them.
func (t *Table) Values(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i].Values, true
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns the cells of row r in column order.
func (t *Table) Row(r int) []string {
	row := make([]string, len(t.columns))
	for i, c := range t.columns {
		row[i] = c.Values[r]
	}
	return row
}

// WithColumns returns a new Table with extra columns appended after the
// existing ones. The receiver is left untouched. Appended names that collide
// with existing ones are suffixed like duplicate headers.
func (t *Table) WithColumns(extra ...Column) (*Table, error) {
	for _, c := range extra {
		if len(c.Values) != t.rows {
			return nil, eris.Errorf("table: column %q has %d values, want %d", c.Name, len(c.Values), t.rows)
		}
	}

	names := append(t.Names(), make([]string, len(extra))...)
	for i, c := range extra {
		names[len(t.columns)+i] = c.Name
	}
	names = dedupeNames(names)

	cols := make([]Column, 0, len(names))
	cols = append(cols, t.columns...)
	for i, c := range extra {
		cols = append(cols, Column{Name: names[len(t.columns)+i], Values: slices.Clone(c.Values)})
	}
	return fromColumns(cols, t.rows), nil
}

// dedupeNames makes names unique by suffixing repeats with ".N", skipping any
// suffix already taken.
func dedupeNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	counts := make(map[string]int, len(names))
	for i, n := range names {
		if !taken[n] {
			taken[n] = true
			out[i] = n
			continue
		}
		for {
			counts[n]++
			candidate := fmt.Sprintf("%s.%d", n, counts[n])
			if !taken[candidate] {
				taken[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}

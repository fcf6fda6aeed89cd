package dataset

import (
	"strings"
)

// Table is an in-memory view of a delimited file: named columns and raw string cells.
// Tables are never modified after Load; Head and Filter return new tables.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	opt   Options
	index map[string]int
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the header contains name (exact match).
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Index(name)
	return ok
}

// Missing returns the subset of names not present in the header, in argument order.
func (t *Table) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

// Value returns the trimmed cell at row/column, or "" when the column is absent.
func (t *Table) Value(row int, col string) string {
	i, ok := t.Index(col)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// Float parses the cell at row/column as a number.
func (t *Table) Float(row int, col string) (float64, bool) {
	v := t.Value(row, col)
	if v == "" {
		return 0, false
	}
	return parseNumeric(v, t.opt)
}

// Head returns a table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.derive(t.Rows[:n:n])
}

// Filter returns a table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([][]string, 0, len(t.Rows))
	for i, r := range t.Rows {
		if keep(i) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows)
}

// Equals returns a predicate matching rows whose column value equals want.
func (t *Table) Equals(col, want string) func(row int) bool {
	return func(row int) bool { return t.Value(row, col) == want }
}

func (t *Table) derive(rows [][]string) *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	d := &Table{Name: t.Name, Columns: cols, Rows: rows, opt: t.opt}
	d.reindex()
	return d
}

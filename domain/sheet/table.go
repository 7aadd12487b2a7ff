package sheet

import "fmt"

// Row maps a column name to its canonical value
type Row map[string]Value

// Table is an ordered list of column names plus rows sharing exactly that
// key set. Tables are built once by NewTable and never mutated afterwards.
type Table struct {
	name    string
	columns []string
	rows    []Row
}

// NewTable validates that every row carries exactly the distinct column names
// and returns the table. Duplicate column names are kept in the column list
// and share a single key in each row.
func NewTable(name string, columns []string, rows []Row) (*Table, error) {
	keys := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		keys[c] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(keys) {
			return nil, fmt.Errorf("%w: row %d has %d keys, want %d", ErrRowShape, i, len(row), len(keys))
		}
		for k := range row {
			if _, ok := keys[k]; !ok {
				return nil, fmt.Errorf("%w: row %d has unexpected key %q", ErrRowShape, i, k)
			}
		}
	}

	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		rows:    rows,
	}, nil
}

// Name returns the sheet name the table was extracted from
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in header order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int { return len(t.rows) }

// Row returns a copy of row i
func (t *Table) Row(i int) Row {
	out := make(Row, len(t.rows[i]))
	for k, v := range t.rows[i] {
		out[k] = v
	}
	return out
}

// Rows returns copies of all rows
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// HasColumn reports whether name is one of the table's columns
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[name]
	}
	return out, nil
}

// DuplicateColumns lists header names that appear more than once.
func (t *Table) DuplicateColumns() []string {
	seen := make(map[string]int, len(t.columns))
	var dups []string
	for _, c := range t.columns {
		seen[c]++
		if seen[c] == 2 {
			dups = append(dups, c)
		}
	}
	return dups
}

// Equal reports whether two tables have the same name, columns and rows
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.name != o.name || len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		if len(t.rows[i]) != len(o.rows[i]) {
			return false
		}
		for k, v := range t.rows[i] {
			if o.rows[i][k] != v {
				return false
			}
		}
	}
	return true
}

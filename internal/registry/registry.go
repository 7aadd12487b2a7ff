// Package registry holds the tables extracted from the current upload.
package registry

import "sheetchart/domain/sheet"

// Entry pairs a sheet name with its table
type Entry struct {
	SheetName string
	Table     *sheet.Table
}

// Registry is the ordered set of tables for one upload session. It is not
// safe for concurrent use; the owning session serializes access.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty registry
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Reset discards every table. Called once per upload before any Add.
func (r *Registry) Reset() {
	r.entries = nil
	r.index = make(map[string]int)
}

// Add registers a table under sheetName. An existing entry with the same
// name is replaced in place.
func (r *Registry) Add(sheetName string, table *sheet.Table) {
	if i, ok := r.index[sheetName]; ok {
		r.entries[i].Table = table
		return
	}
	r.index[sheetName] = len(r.entries)
	r.entries = append(r.entries, Entry{SheetName: sheetName, Table: table})
}

// All returns the entries in insertion order
func (r *Registry) All() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Get looks up a table by sheet name
func (r *Registry) Get(sheetName string) (*sheet.Table, bool) {
	i, ok := r.index[sheetName]
	if !ok {
		return nil, false
	}
	return r.entries[i].Table, true
}

// Len returns the number of registered sheets
func (r *Registry) Len() int {
	return len(r.entries)
}

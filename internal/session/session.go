package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"sheetchart/domain/sheet"
	"sheetchart/internal/axis"
	"sheetchart/internal/errors"
	"sheetchart/internal/ingest"
	"sheetchart/internal/registry"
)

// SheetInfo summarizes one registered table
type SheetInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
	// XAxis is empty until the sheet has been charted
	XAxis string `json:"x_axis"`
}

// TableView is the tabular form of a registered sheet
type TableView struct {
	Sheet   string      `json:"sheet"`
	Columns []string    `json:"columns"`
	Rows    []sheet.Row `json:"rows"`
}

// Session owns the registry for one browser session together with the
// selected X axis of every charted sheet. All methods are serialized.
type Session struct {
	id       string
	pipeline *ingest.Pipeline

	mu       sync.Mutex
	registry *registry.Registry
	selected map[string]string
	fileName string

	lastSeen atomic.Int64
}

func newSession(id string, pipeline *ingest.Pipeline, now time.Time) *Session {
	s := &Session{
		id:       id,
		pipeline: pipeline,
		registry: registry.New(),
		selected: make(map[string]string),
	}
	s.touch(now)
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// FileName returns the name of the last successfully ingested file
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Upload ingests a file and replaces the registry contents with its tables.
// When ingestion fails the registry and axis selections are left as they were.
func (s *Session) Upload(ctx context.Context, filename string, r io.Reader) (*ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pipeline.Run(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	s.registry.Reset()
	s.selected = make(map[string]string)
	for _, entry := range result.Entries {
		s.registry.Add(entry.SheetName, entry.Table)
	}
	s.fileName = result.FileName
	return result, nil
}

// Sheets lists the registered tables in registry order
func (s *Session) Sheets() []SheetInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.registry.All()
	infos := make([]SheetInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, SheetInfo{
			Name:    entry.SheetName,
			Columns: entry.Table.Columns(),
			Rows:    entry.Table.NumRows(),
			XAxis:   s.selected[entry.SheetName],
		})
	}
	return infos
}

// Chart builds the chart for a sheet. An empty column reuses the sheet's
// current selection, or its first column on first render. The column used
// becomes the sheet's selection.
func (s *Session) Chart(sheetName, column string) (*axis.Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.registry.Get(sheetName)
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, sheetName))
	}
	if column == "" {
		column = s.selected[sheetName]
	}

	chart, err := axis.Select(table, column)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	s.selected[sheetName] = chart.XAxis
	return chart, nil
}

// SelectedAxis returns the current X axis of a sheet and whether one is chosen
func (s *Session) SelectedAxis(sheetName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	column, ok := s.selected[sheetName]
	return column, ok
}

// Table returns the rows of a registered sheet
func (s *Session) Table(sheetName string) (*TableView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.registry.Get(sheetName)
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, sheetName))
	}
	return &TableView{
		Sheet:   sheetName,
		Columns: table.Columns(),
		Rows:    table.Rows(),
	}, nil
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Package extract builds uniform tables from decoded sheets.
package extract

import (
	"strings"

	"sheetchart/domain/sheet"
)

// CellNormalizer converts a raw cell into its canonical value
type CellNormalizer interface {
	Normalize(v sheet.RawCell) sheet.Value
}

// Extractor converts decoded sheets into tables
type Extractor struct {
	normalizer CellNormalizer
}

// NewExtractor creates an extractor. A nil normalizer passes cells through.
func NewExtractor(normalizer CellNormalizer) *Extractor {
	return &Extractor{normalizer: normalizer}
}

// Extract builds a table from a header row and positional data rows (the
// workbook path). Cells missing from a short row become the canonical empty
// value; cells beyond the header are dropped.
func (e *Extractor) Extract(name string, header []string, rows [][]sheet.RawCell) (*sheet.Table, error) {
	if isBlankHeader(header) || len(rows) == 0 {
		return nil, sheet.NewSheetError(name, sheet.ErrEmptySheet)
	}

	out := make([]sheet.Row, len(rows))
	for i, raw := range rows {
		row := make(sheet.Row, len(header))
		for j, col := range header {
			v := sheet.Empty()
			if j < len(raw) && !raw[j].IsEmpty() {
				v = e.normalize(raw[j])
			}
			row[col] = v
		}
		out[i] = row
	}

	table, err := sheet.NewTable(name, header, out)
	if err != nil {
		return nil, sheet.NewSheetError(name, err)
	}
	return table, nil
}

// ExtractRecords builds a table from header-keyed text records (the CSV
// path). Values are kept as text; the date serial rule is not applied.
func (e *Extractor) ExtractRecords(rec sheet.Records) (*sheet.Table, error) {
	if isBlankHeader(rec.Fields) || len(rec.Rows) == 0 {
		return nil, sheet.NewSheetError(rec.Name, sheet.ErrEmptySheet)
	}

	out := make([]sheet.Row, len(rec.Rows))
	for i, record := range rec.Rows {
		row := make(sheet.Row, len(rec.Fields))
		for _, col := range rec.Fields {
			if s, ok := record[col]; ok && s != "" {
				row[col] = sheet.Text(s)
			} else {
				row[col] = sheet.Empty()
			}
		}
		out[i] = row
	}

	table, err := sheet.NewTable(rec.Name, rec.Fields, out)
	if err != nil {
		return nil, sheet.NewSheetError(rec.Name, err)
	}
	return table, nil
}

func (e *Extractor) normalize(v sheet.RawCell) sheet.Value {
	if e.normalizer == nil {
		return v
	}
	return e.normalizer.Normalize(v)
}

func isBlankHeader(header []string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			return false
		}
	}
	return true
}

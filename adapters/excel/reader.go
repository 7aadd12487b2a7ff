package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sheetchart/domain/sheet"
	"sheetchart/internal"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Decoder turns uploaded CSV and workbook bytes into raw sheets
type Decoder struct {
	config DecoderConfig
	logger *internal.Logger
}

// NewDecoder creates a decoder with the given configuration
func NewDecoder(config DecoderConfig, logger *internal.Logger) *Decoder {
	if config.Comma == 0 {
		config.Comma = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Decoder{config: config, logger: logger.WithComponent("Decoder")}
}

// DetectKind classifies a file by its extension
func (d *Decoder) DetectKind(filename string) sheet.FileKind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".csv":
		return sheet.FileKindCSV
	case workbookExtensions[ext]:
		return sheet.FileKindWorkbook
	default:
		return sheet.FileKindUnknown
	}
}

// Decode reads a CSV or workbook file. A failure confined to one workbook
// sheet is recorded on that sheet rather than returned.
func (d *Decoder) Decode(ctx context.Context, filename string, r io.Reader) (*sheet.Workbook, error) {
	switch d.DetectKind(filename) {
	case sheet.FileKindCSV:
		return d.readCSV(filename, r)
	case sheet.FileKindWorkbook:
		return d.readWorkbook(ctx, filename, r)
	default:
		return nil, fmt.Errorf("%w: %s", sheet.ErrUnrecognizedFileType, filename)
	}
}

// readCSV reads header-keyed records. A UTF-8 or UTF-16 byte order mark is
// consumed before parsing.
func (d *Decoder) readCSV(filename string, r io.Reader) (*sheet.Workbook, error) {
	readStart := time.Now()

	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = d.config.Comma
	reader.LazyQuotes = d.config.LazyQuotes
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	d.logger.Debug("CSV %s read in %.2fms (%d rows)", filename, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	records := &sheet.Records{Name: filepath.Base(filename)}
	if len(rows) == 0 {
		return &sheet.Workbook{FileName: filename, Kind: sheet.FileKindCSV, Records: records}, nil
	}

	records.Fields = rows[0]
	records.Rows = make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(records.Fields))
		for j, value := range row {
			if j < len(records.Fields) {
				record[records.Fields[j]] = value
			}
		}
		records.Rows = append(records.Rows, record)
	}

	return &sheet.Workbook{FileName: filename, Kind: sheet.FileKindCSV, Records: records}, nil
}

// readWorkbook reads every sheet with raw (unformatted) cell values and
// uses the stored cell type to tell numbers from text.
func (d *Decoder) readWorkbook(ctx context.Context, filename string, r io.Reader) (*sheet.Workbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	d.logger.Debug("workbook %s opened in %.2fms", filename, float64(time.Since(startTime).Nanoseconds())/1e6)

	wb := &sheet.Workbook{FileName: filename, Kind: sheet.FileKindWorkbook}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.Date1904 = *props.Date1904
	}

	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, d.readSheet(f, name))
	}

	d.logger.Debug("workbook %s decoded in %.2fms (%d sheets)", filename, float64(time.Since(startTime).Nanoseconds())/1e6, len(wb.Sheets))
	return wb, nil
}

func (d *Decoder) readSheet(f *excelize.File, name string) sheet.RawSheet {
	raw := sheet.RawSheet{Name: name}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		raw.Err = fmt.Errorf("failed to read rows: %w", err)
		return raw
	}

	// GetRows pads columns left of the used range with empty strings
	startRow, startCol := 0, 0
	if d.config.SkipLeadingBlankRows {
		for startRow < len(rows) && isBlankRow(rows[startRow]) {
			startRow++
		}
		startCol = leadingBlankColumns(rows[startRow:])
	}
	if startRow >= len(rows) {
		return raw
	}

	raw.Header = trimLeft(rows[startRow], startCol)
	raw.Rows = make([][]sheet.RawCell, 0, len(rows)-startRow-1)
	for i := startRow + 1; i < len(rows); i++ {
		values := trimLeft(rows[i], startCol)
		cells := make([]sheet.RawCell, len(values))
		for j, value := range values {
			cells[j] = classifyCell(value, d.cellTypeLookup(f, name, startCol+j+1, i+1))
		}
		raw.Rows = append(raw.Rows, cells)
	}
	return raw
}

// cellTypeLookup defers GetCellType until a cell needs it; col and row are 1-based.
func (d *Decoder) cellTypeLookup(f *excelize.File, sheetName string, col, row int) func() excelize.CellType {
	return func() excelize.CellType {
		ref, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return excelize.CellTypeUnset
		}
		t, err := f.GetCellType(sheetName, ref)
		if err != nil {
			return excelize.CellTypeUnset
		}
		return t
	}
}

// classifyCell only resolves the stored type for values that parse as
// numbers. Anything else is text whatever its type.
func classifyCell(value string, cellType func() excelize.CellType) sheet.RawCell {
	if value == "" {
		return sheet.Empty()
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return toRawCell(value, excelize.CellTypeSharedString)
	}
	return toRawCell(value, cellType())
}

// leadingBlankColumns counts the columns left of the first non-blank cell
// in any row
func leadingBlankColumns(rows [][]string) int {
	lead := -1
	for _, row := range rows {
		for j, cell := range row {
			if lead >= 0 && j >= lead {
				break
			}
			if strings.TrimSpace(cell) != "" {
				lead = j
				break
			}
		}
	}
	if lead < 0 {
		return 0
	}
	return lead
}

func trimLeft(row []string, n int) []string {
	if n >= len(row) {
		return nil
	}
	return row[n:]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

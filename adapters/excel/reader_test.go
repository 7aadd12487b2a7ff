package excel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sheetchart/domain/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestDecoder() *Decoder {
	return NewDecoder(DefaultDecoderConfig(), nil)
}

func buildWorkbook(t *testing.T, build func(f *excelize.File)) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDetectKind(t *testing.T) {
	d := newTestDecoder()
	tests := []struct {
		filename string
		want     sheet.FileKind
	}{
		{"data.csv", sheet.FileKindCSV},
		{"DATA.CSV", sheet.FileKindCSV},
		{"report.xlsx", sheet.FileKindWorkbook},
		{"macro.xlsm", sheet.FileKindWorkbook},
		{"legacy.xls", sheet.FileKindUnknown},
		{"notes.txt", sheet.FileKindUnknown},
		{"noextension", sheet.FileKindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectKind(tt.filename))
		})
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := newTestDecoder().Decode(context.Background(), "notes.txt", strings.NewReader("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sheet.ErrUnrecognizedFileType))
}

func TestDecode_CSV(t *testing.T) {
	input := "\ufeffCity,Pop\nA,10\nB\nC,30,extra\n"
	wb, err := newTestDecoder().Decode(context.Background(), "uploads/cities.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, sheet.FileKindCSV, wb.Kind)
	require.NotNil(t, wb.Records)
	assert.Equal(t, "cities.csv", wb.Records.Name)
	assert.Equal(t, []string{"City", "Pop"}, wb.Records.Fields)
	require.Len(t, wb.Records.Rows, 3)
	assert.Equal(t, map[string]string{"City": "A", "Pop": "10"}, wb.Records.Rows[0])
	assert.Equal(t, map[string]string{"City": "B"}, wb.Records.Rows[1])
	assert.Equal(t, map[string]string{"City": "C", "Pop": "30"}, wb.Records.Rows[2])
	assert.Equal(t, []string{"cities.csv"}, wb.SheetNames())
}

func TestDecode_CSVEmpty(t *testing.T) {
	wb, err := newTestDecoder().Decode(context.Background(), "empty.csv", strings.NewReader(""))
	require.NoError(t, err)
	require.NotNil(t, wb.Records)
	assert.Empty(t, wb.Records.Fields)
	assert.Empty(t, wb.Records.Rows)
}

func TestDecode_Workbook(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "Date"))
		require.NoError(t, f.SetCellValue("Sheet1", "B1", "Sales"))
		require.NoError(t, f.SetCellValue("Sheet1", "C1", "Open"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", 42738))
		require.NoError(t, f.SetCellValue("Sheet1", "B2", 120.5))
		require.NoError(t, f.SetCellValue("Sheet1", "C2", true))
		require.NoError(t, f.SetCellValue("Sheet1", "A3", "n/a"))
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "7"))

		_, err := f.NewSheet("Blank")
		require.NoError(t, err)
	})

	wb, err := newTestDecoder().Decode(context.Background(), "sales.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, sheet.FileKindWorkbook, wb.Kind)
	assert.False(t, wb.Date1904)
	assert.Equal(t, []string{"Sheet1", "Blank"}, wb.SheetNames())

	data := wb.Sheets[0]
	require.NoError(t, data.Err)
	assert.Equal(t, []string{"Date", "Sales", "Open"}, data.Header)
	require.Len(t, data.Rows, 2)

	assert.Equal(t, sheet.Number(42738), data.Rows[0][0])
	assert.Equal(t, sheet.Number(120.5), data.Rows[0][1])
	assert.Equal(t, sheet.Text("TRUE"), data.Rows[0][2])

	// strings that look numeric stay text
	assert.Equal(t, sheet.Text("n/a"), data.Rows[1][0])
	assert.Equal(t, sheet.Text("7"), data.Rows[1][1])

	blank := wb.Sheets[1]
	assert.Empty(t, blank.Header)
	assert.Empty(t, blank.Rows)
}

func TestDecode_WorkbookSkipsLeadingBlankRows(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A3", "Name"))
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "Score"))
		require.NoError(t, f.SetCellValue("Sheet1", "A4", "x"))
		require.NoError(t, f.SetCellValue("Sheet1", "B4", 1))
		require.NoError(t, f.SetCellValue("Sheet1", "A6", "y"))
	})

	wb, err := newTestDecoder().Decode(context.Background(), "scores.xlsx", buf)
	require.NoError(t, err)

	data := wb.Sheets[0]
	assert.Equal(t, []string{"Name", "Score"}, data.Header)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []sheet.RawCell{sheet.Text("x"), sheet.Number(1)}, data.Rows[0])
	assert.Empty(t, data.Rows[1])
	assert.Equal(t, []sheet.RawCell{sheet.Text("y")}, data.Rows[2])
}

func TestDecode_WorkbookSkipsLeadingBlankColumns(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "B1", "Date"))
		require.NoError(t, f.SetCellValue("Sheet1", "C1", "Value"))
		require.NoError(t, f.SetCellValue("Sheet1", "B2", 42738))
		require.NoError(t, f.SetCellValue("Sheet1", "C2", 5))
		require.NoError(t, f.SetCellValue("Sheet1", "C3", "seven"))
	})

	wb, err := newTestDecoder().Decode(context.Background(), "anchored.xlsx", buf)
	require.NoError(t, err)

	data := wb.Sheets[0]
	assert.Equal(t, []string{"Date", "Value"}, data.Header)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []sheet.RawCell{sheet.Number(42738), sheet.Number(5)}, data.Rows[0])
	assert.Equal(t, []sheet.RawCell{sheet.Empty(), sheet.Text("seven")}, data.Rows[1])
}

func TestDecode_DataLeftOfHeaderKeepsColumns(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "C2", "Name"))
		require.NoError(t, f.SetCellValue("Sheet1", "D2", "Score"))
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "note"))
		require.NoError(t, f.SetCellValue("Sheet1", "C3", "x"))
	})

	wb, err := newTestDecoder().Decode(context.Background(), "wide.xlsx", buf)
	require.NoError(t, err)

	data := wb.Sheets[0]
	assert.Equal(t, []string{"", "Name", "Score"}, data.Header)
	assert.Equal(t, []sheet.RawCell{sheet.Text("note"), sheet.Text("x")}, data.Rows[0])
}

func TestLeadingBlankColumns(t *testing.T) {
	assert.Equal(t, 0, leadingBlankColumns(nil))
	assert.Equal(t, 0, leadingBlankColumns([][]string{{"", ""}, {}}))
	assert.Equal(t, 2, leadingBlankColumns([][]string{{"", " ", "a"}, {"", "", "", "b"}}))
	assert.Equal(t, 1, leadingBlankColumns([][]string{{"", "", "a"}, {"", "b"}}))
}

func TestClassifyCellResolvesTypeOnlyForNumbers(t *testing.T) {
	lookups := 0
	lookup := func(cellType excelize.CellType) func() excelize.CellType {
		return func() excelize.CellType {
			lookups++
			return cellType
		}
	}

	assert.Equal(t, sheet.Text("n/a"), classifyCell("n/a", lookup(excelize.CellTypeSharedString)))
	assert.Equal(t, sheet.Empty(), classifyCell("", lookup(excelize.CellTypeUnset)))
	assert.Equal(t, 0, lookups)

	assert.Equal(t, sheet.Number(12.5), classifyCell("12.5", lookup(excelize.CellTypeUnset)))
	assert.Equal(t, sheet.Text("7"), classifyCell("7", lookup(excelize.CellTypeSharedString)))
	assert.Equal(t, sheet.Text("TRUE"), classifyCell("1", lookup(excelize.CellTypeBool)))
	assert.Equal(t, 3, lookups)
}

func TestDecode_CorruptWorkbook(t *testing.T) {
	_, err := newTestDecoder().Decode(context.Background(), "broken.xlsx", strings.NewReader("not a zip archive"))
	assert.Error(t, err)
}

func TestDecode_CancelledContext(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "h"))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDecoder().Decode(ctx, "sales.xlsx", buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToRawCell(t *testing.T) {
	assert.Equal(t, sheet.Empty(), toRawCell("", excelize.CellTypeSharedString))
	assert.Equal(t, sheet.Number(3.25), toRawCell("3.25", excelize.CellTypeUnset))
	assert.Equal(t, sheet.Number(3.25), toRawCell("3.25", excelize.CellTypeNumber))
	assert.Equal(t, sheet.Text("#DIV/0!"), toRawCell("#DIV/0!", excelize.CellTypeError))
	assert.Equal(t, sheet.Text("FALSE"), toRawCell("0", excelize.CellTypeBool))
	assert.Equal(t, sheet.Text("12"), toRawCell("12", excelize.CellTypeInlineString))
}

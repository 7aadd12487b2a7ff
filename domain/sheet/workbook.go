package sheet

// FileKind is the decoder's classification of an uploaded file
type FileKind string

const (
	FileKindCSV      FileKind = "csv"
	FileKindWorkbook FileKind = "workbook"
	FileKindUnknown  FileKind = "unknown"
)

// RawSheet is one decoded workbook sheet: the first row as header, the rest
// as positional raw cells.
type RawSheet struct {
	Name   string
	Header []string
	Rows   [][]RawCell
	// Err records a failure confined to this sheet
	Err error
}

// Records is the CSV decode result: header-keyed text records with the
// header order kept in Fields.
type Records struct {
	Name   string
	Fields []string
	Rows   []map[string]string
}

// Workbook is everything the decoder produced for one file. Exactly one of
// Sheets or Records is populated, depending on Kind.
type Workbook struct {
	FileName string
	Kind     FileKind
	// Date1904 is set when the workbook uses the 1904 date system
	Date1904 bool
	Sheets   []RawSheet
	Records  *Records
}

// SheetNames lists the sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	if w.Kind == FileKindCSV && w.Records != nil {
		return []string{w.Records.Name}
	}
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

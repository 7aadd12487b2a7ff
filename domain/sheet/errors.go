package sheet

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySheet means the sheet has no header or no data rows
	ErrEmptySheet = errors.New("empty sheet")
	// ErrUnrecognizedFileType means the file is neither CSV nor a workbook
	ErrUnrecognizedFileType = errors.New("unrecognized file type")
	ErrUnknownColumn        = errors.New("unknown column")
	ErrSheetNotFound        = errors.New("sheet not found")
	// ErrRowShape means a row's keys do not match the table's columns
	ErrRowShape = errors.New("row does not match table columns")
)

// SheetError ties an extraction failure to the sheet it happened in.
type SheetError struct {
	SheetName string
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.SheetName, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName string, err error) *SheetError {
	return &SheetError{SheetName: sheetName, Err: err}
}

func IsEmptySheet(err error) bool {
	return errors.Is(err, ErrEmptySheet)
}

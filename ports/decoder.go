package ports

import (
	"context"
	"io"

	"sheetchart/domain/sheet"
)

// DecoderPort turns uploaded file bytes into raw sheets
type DecoderPort interface {
	// DetectKind classifies a file by name without reading it
	DetectKind(filename string) sheet.FileKind
	// Decode reads the whole file. Unrecognized kinds return sheet.ErrUnrecognizedFileType.
	Decode(ctx context.Context, filename string, r io.Reader) (*sheet.Workbook, error)
}

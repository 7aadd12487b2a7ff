package excel

// DecoderConfig holds decoding options for CSV and workbook files
type DecoderConfig struct {
	// Comma is the CSV field delimiter
	Comma rune `json:"comma"`
	// LazyQuotes tolerates stray quotes in unquoted CSV fields
	LazyQuotes bool `json:"lazy_quotes"`
	// SkipLeadingBlankRows starts a sheet at its first non-empty row
	SkipLeadingBlankRows bool `json:"skip_leading_blank_rows"`
}

// DefaultDecoderConfig returns sensible defaults for spreadsheet decoding
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		Comma:                ',',
		LazyQuotes:           true,
		SkipLeadingBlankRows: true,
	}
}

package ingest

import (
	"context"
	"errors"
	"io"
	"time"

	"sheetchart/domain/sheet"
	"sheetchart/internal"
	apperrors "sheetchart/internal/errors"
	"sheetchart/internal/extract"
	"sheetchart/internal/normalize"
	"sheetchart/internal/registry"
	"sheetchart/ports"

	"golang.org/x/sync/errgroup"
)

// Notice reports a sheet that was left out of the result
type Notice struct {
	Sheet   string `json:"sheet"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of ingesting one file. Entries follow workbook order.
type Result struct {
	FileName string           `json:"file_name"`
	Kind     sheet.FileKind   `json:"kind"`
	Entries  []registry.Entry `json:"-"`
	Notices  []Notice         `json:"notices"`
}

// Pipeline decodes a file and extracts a table from every sheet in it
type Pipeline struct {
	decoder    ports.DecoderPort
	normalizer *normalize.Normalizer
	workers    int
	logger     *internal.Logger
}

// NewPipeline creates a pipeline; workers bounds concurrent sheet extraction
func NewPipeline(decoder ports.DecoderPort, normalizer *normalize.Normalizer, workers int, logger *internal.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if normalizer == nil {
		normalizer = normalize.NewNormalizer(normalize.DefaultDateSerialRule())
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{
		decoder:    decoder,
		normalizer: normalizer,
		workers:    workers,
		logger:     logger.WithComponent("Ingest"),
	}
}

// DetectKind exposes the decoder's classification so callers can reject a
// file before reading it
func (p *Pipeline) DetectKind(filename string) sheet.FileKind {
	return p.decoder.DetectKind(filename)
}

// Run decodes and extracts. An unrecognized or undecodable file returns an
// error and no result; failures of individual sheets become notices.
func (p *Pipeline) Run(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	startTime := time.Now()

	if p.decoder.DetectKind(filename) == sheet.FileKindUnknown {
		return nil, apperrors.UnrecognizedFileType(filename)
	}

	wb, err := p.decoder.Decode(ctx, filename, r)
	if err != nil {
		if errors.Is(err, sheet.ErrUnrecognizedFileType) {
			return nil, apperrors.UnrecognizedFileType(filename)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.DecodeFailed(filename, err)
	}

	var result *Result
	if wb.Kind == sheet.FileKindCSV {
		result = p.extractRecords(wb)
	} else {
		result, err = p.extractSheets(ctx, wb)
		if err != nil {
			return nil, err
		}
	}

	p.logger.Info("%s: %d tables, %d notices in %.2fms",
		filename, len(result.Entries), len(result.Notices), float64(time.Since(startTime).Nanoseconds())/1e6)
	return result, nil
}

func (p *Pipeline) extractRecords(wb *sheet.Workbook) *Result {
	result := &Result{FileName: wb.FileName, Kind: wb.Kind}
	records := sheet.Records{}
	if wb.Records != nil {
		records = *wb.Records
	}

	table, err := extract.NewExtractor(nil).ExtractRecords(records)
	if err != nil {
		result.Notices = append(result.Notices, p.notice(records.Name, err))
		return result
	}
	p.logDuplicates(table)
	result.Entries = append(result.Entries, registry.Entry{SheetName: records.Name, Table: table})
	return result
}

type sheetOutcome struct {
	table *sheet.Table
	err   error
}

// extractSheets runs one extraction per sheet. Outcomes are stored by index
// and a failing sheet never cancels its siblings.
func (p *Pipeline) extractSheets(ctx context.Context, wb *sheet.Workbook) (*Result, error) {
	extractor := extract.NewExtractor(p.normalizer.ForWorkbook(wb.Date1904))
	outcomes := make([]sheetOutcome, len(wb.Sheets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range wb.Sheets {
		raw := wb.Sheets[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if raw.Err != nil {
				outcomes[i] = sheetOutcome{err: sheet.NewSheetError(raw.Name, raw.Err)}
				return nil
			}
			table, err := extractor.Extract(raw.Name, raw.Header, raw.Rows)
			outcomes[i] = sheetOutcome{table: table, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{FileName: wb.FileName, Kind: wb.Kind}
	for i, outcome := range outcomes {
		name := wb.Sheets[i].Name
		if outcome.err != nil {
			result.Notices = append(result.Notices, p.notice(name, outcome.err))
			continue
		}
		p.logDuplicates(outcome.table)
		result.Entries = append(result.Entries, registry.Entry{SheetName: name, Table: outcome.table})
	}
	return result, nil
}

func (p *Pipeline) notice(sheetName string, err error) Notice {
	if sheet.IsEmptySheet(err) {
		p.logger.Debug("sheet %q has no data rows", sheetName)
		return Notice{Sheet: sheetName, Code: apperrors.CodeEmptySheet, Message: "sheet has no header or no data rows"}
	}
	p.logger.Warn("sheet %q skipped: %v", sheetName, err)
	return Notice{Sheet: sheetName, Code: apperrors.CodeDecodeFailed, Message: err.Error()}
}

func (p *Pipeline) logDuplicates(t *sheet.Table) {
	if dups := t.DuplicateColumns(); len(dups) > 0 {
		p.logger.Warn("sheet %q has duplicate columns %v; later cells win", t.Name(), dups)
	}
}

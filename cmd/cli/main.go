package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sheetchart/internal/axis"
	"sheetchart/internal/config"
	"sheetchart/internal/container"
	"sheetchart/internal/ingest"
	"sheetchart/internal/registry"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetchart-cli",
		Short:         "SheetChart CLI for extracting chart series from CSV and Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newExtractCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

type chartOutput struct {
	Sheet string      `json:"sheet"`
	Chart *axis.Chart `json:"chart"`
}

type extractOutput struct {
	File    string          `json:"file"`
	Charts  []chartOutput   `json:"charts"`
	Notices []ingest.Notice `json:"notices"`
}

func newExtractCmd() *cobra.Command {
	var sheetName string
	var xColumn string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print chart series for every sheet of a file as JSON",
		Long: `Decode a CSV or Excel workbook and print the categories and series the
web UI would chart for each sheet.

Example: sheetchart-cli extract sales.xlsx --sheet Q1 --x Month --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), cmd.OutOrStdout(), args[0], sheetName, xColumn, pretty)
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Only extract this sheet")
	cmd.Flags().StringVar(&xColumn, "x", "", "X-axis column (default: first column)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "List sheets, columns and row counts of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func ingestFile(ctx context.Context, path string) (*ingest.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return c.Pipeline.Run(ctx, filepath.Base(path), f)
}

func runExtract(ctx context.Context, w io.Writer, path, sheetName, xColumn string, pretty bool) error {
	result, err := ingestFile(ctx, path)
	if err != nil {
		return err
	}

	out := extractOutput{
		File:    result.FileName,
		Charts:  []chartOutput{},
		Notices: result.Notices,
	}
	if out.Notices == nil {
		out.Notices = []ingest.Notice{}
	}

	entries := result.Entries
	if sheetName != "" {
		entries = filterEntries(entries, sheetName)
		if len(entries) == 0 {
			return fmt.Errorf("sheet %q not found in %s", sheetName, result.FileName)
		}
	}

	for _, entry := range entries {
		chart, err := axis.Select(entry.Table, xColumn)
		if err != nil {
			return err
		}
		out.Charts = append(out.Charts, chartOutput{Sheet: entry.SheetName, Chart: chart})
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func runInspect(ctx context.Context, w io.Writer, path string) error {
	result, err := ingestFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File: %s (%s)\n", result.FileName, result.Kind)
	for i, entry := range result.Entries {
		fmt.Fprintf(w, "%d. %s: %d rows\n", i+1, entry.SheetName, entry.Table.NumRows())
		for _, col := range entry.Table.Columns() {
			fmt.Fprintf(w, "   - %s\n", col)
		}
	}
	for _, notice := range result.Notices {
		fmt.Fprintf(w, "skipped %s: %s (%s)\n", notice.Sheet, notice.Message, notice.Code)
	}
	return nil
}

func filterEntries(entries []registry.Entry, sheetName string) []registry.Entry {
	for _, entry := range entries {
		if entry.SheetName == sheetName {
			return []registry.Entry{entry}
		}
	}
	return nil
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/parquet"
	"github.com/cellplot/cellplot/schema"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// missingReading is shown in tables for readings that were never recorded.
const missingReading = "-"

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCells prints cells using the configured output format.
func (ow *OutWriter) WriteCells(cells []schema.Cell, cfg *contract.Config, duration time.Duration) error {
	return printRecords(cellsTable(cells), cells, func(path string) error {
		return parquet.WriteCellsParquet(parquet.ConvertCells(cells), path)
	}, cfg, duration)
}

// WriteCycleSummaries prints the cycle summaries of a cell using the configured output format.
func (ow *OutWriter) WriteCycleSummaries(cellID string, rows []schema.CycleSummary, cfg *contract.Config, duration time.Duration) error {
	return printRecords(summariesTable(rows), rows, func(path string) error {
		return parquet.WriteCycleSummariesParquet(parquet.ConvertCycleSummaries(cellID, rows), path)
	}, cfg, duration)
}

// WriteTimeseries prints timeseries readings of a cell using the configured output format.
// JSON output keeps the response envelope with its units.
func (ow *OutWriter) WriteTimeseries(cellID string, resp *schema.TimeseriesResponse, cfg *contract.Config, duration time.Duration) error {
	return printRecords(timeseriesTable(resp), resp, func(path string) error {
		return parquet.WriteTimeseriesParquet(parquet.ConvertTimeseries(cellID, resp.Rows), path)
	}, cfg, duration)
}

// printRecords dispatches on the configured output format.
func printRecords(t recordTable, jsonData any, writeParquet func(string) error, cfg *contract.Config, duration time.Duration) error {
	_, fmtNullable := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, jsonData)
		}, "Wrote JSON "+t.name); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRecords(w, t, fmtNullable)
		}, "Wrote CSV "+t.name); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet %s to %s\n", t.name, cfg.OutputFile)
	case schema.XLSXOut:
		if err := writeXLSX(t, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote XLSX %s to %s\n", t.name, cfg.OutputFile)
	default:
		// Default to human-readable table
		if err := writeTable(os.Stdout, t, cfg, fmtNullable); err != nil {
			return fmt.Errorf("error writing %s table output: %w", t.name, err)
		}
		fmt.Printf("Fetched %d %s rows in %v. Store backend: %s\n", len(t.rows), t.name, duration, cfg.Backend)
	}
	return nil
}

// writeCSVRecords writes a table with machine column names and blank missing readings.
func writeCSVRecords(w io.Writer, t recordTable, fmtNullable func(*float64) string) error {
	return writeCSVWithHeader(w, t.columns, func(cw *csv.Writer) error {
		for _, row := range t.rows {
			rec := make([]string, len(row))
			for i, v := range row {
				rec[i] = textValue(v, fmtNullable, "")
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeTable renders a table with right-aligned values. Text columns are truncated to fit
// the terminal.
func writeTable(w io.Writer, t recordTable, cfg *contract.Config, fmtNullable func(*float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := t.headers()
	if cfg.UseColors {
		bold := color.New(color.FgCyan, color.Bold).SprintFunc()
		for i, h := range headers {
			headers[i] = bold(h)
		}
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	textWidth := GetMaxTableTextWidth(cfg, numericColumns(t))
	data := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		line := make([]string, len(row))
		for i, v := range row {
			if s, ok := v.(string); ok {
				line[i] = truncateText(s, textWidth)
				continue
			}
			line[i] = textValue(v, fmtNullable, missingReading)
		}
		data = append(data, line)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func numericColumns(t recordTable) int {
	if len(t.rows) == 0 {
		return len(t.columns)
	}
	n := 0
	for _, v := range t.rows[0] {
		if _, ok := v.(string); !ok {
			n++
		}
	}
	return n
}

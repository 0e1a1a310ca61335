package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testCells() []schema.Cell {
	return []schema.Cell{
		{CellID: "b1c0", ChargePolicy: "3.6C(80%)-3.6C", CycleLife: schema.Float(1852)},
		{CellID: "b1c1", ChargePolicy: "5.4C(40%)-3.6C", CycleLife: nil},
	}
}

func testSummaries() []schema.CycleSummary {
	return []schema.CycleSummary{
		{CycleIndex: 1, IR: schema.Float(0.0167), QCharge: schema.Float(1.07), QDischarge: schema.Float(1.06), TAvg: schema.Float(31.9)},
		{CycleIndex: 2, IR: nil, QCharge: schema.Float(1.08), QDischarge: schema.Float(1.07), TAvg: schema.Float(32.1)},
	}
}

func testTimeseries() *schema.TimeseriesResponse {
	return &schema.TimeseriesResponse{
		Rows: []schema.TimeseriesPoint{
			{CycleIndex: 5, Time: schema.Float(0), Current: schema.Float(0), Voltage: schema.Float(3.3)},
			{CycleIndex: 5, Time: schema.Float(0.5), Current: schema.Float(4.4), Voltage: schema.Float(3.41), Temperature: schema.Float(30.2)},
		},
		Units: map[string]string{"current": "A", "voltage": "V", "temperature": "°C"},
		X:     "time",
	}
}

func testConfig(output schema.OutputMode, file string) *contract.Config {
	return &contract.Config{
		Backend:    schema.SQLiteBackend,
		Output:     output,
		OutputFile: file,
		Precision:  3,
		Width:      120,
	}
}

func TestRecordTableHeaders(t *testing.T) {
	assert.Equal(t, []string{"cell_id", "charge_policy", "cycle_life"}, cellsTable(testCells()).headers())

	headers := summariesTable(testSummaries()).headers()
	assert.Equal(t, "cycle_index", headers[0])
	assert.Equal(t, "ir (Ω)", headers[1])
	assert.Equal(t, "q_charge (Ah)", headers[2])
	assert.Equal(t, "tavg (°C)", headers[4])
	assert.Equal(t, "chargetime (min)", headers[7])

	headers = timeseriesTable(testTimeseries()).headers()
	assert.Equal(t, "time", headers[1])
	assert.Equal(t, "current (A)", headers[2])
	assert.Equal(t, "q_charge", headers[4], "columns absent from the units map have no suffix")
}

func TestTextValue(t *testing.T) {
	_, fmtNullable := createFormatters(2)
	assert.Equal(t, "b1c0", textValue("b1c0", fmtNullable, "-"))
	assert.Equal(t, "12", textValue(12, fmtNullable, "-"))
	assert.Equal(t, "1.50", textValue(schema.Float(1.5), fmtNullable, "-"))
	assert.Equal(t, "-", textValue((*float64)(nil), fmtNullable, "-"))
	assert.Nil(t, cellValue((*float64)(nil)))
	assert.Equal(t, 1.5, cellValue(schema.Float(1.5)))
	assert.Equal(t, 7, cellValue(7))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut, "")
	_, fmtNullable := createFormatters(cfg.Precision)

	require.NoError(t, writeTable(&buf, summariesTable(testSummaries()), cfg, fmtNullable))
	out := buf.String()
	assert.Contains(t, out, "0.017")
	assert.Contains(t, out, "32.100")
	assert.Contains(t, out, missingReading)
}

func TestWriteTableTruncatesText(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut, "")
	cfg.Width = 10
	_, fmtNullable := createFormatters(cfg.Precision)

	cells := []schema.Cell{{CellID: "b1c0", ChargePolicy: "VARCHARGE-5.4C(40%)-3.6C-newstructure"}}
	require.NoError(t, writeTable(&buf, cellsTable(cells), cfg, fmtNullable))
	assert.Contains(t, buf.String(), "VARCHARGE-5…")
	assert.NotContains(t, buf.String(), "newstructure")
}

func TestWriteCSVRecords(t *testing.T) {
	var buf bytes.Buffer
	_, fmtNullable := createFormatters(3)
	require.NoError(t, writeCSVRecords(&buf, cellsTable(testCells()), fmtNullable))
	assert.Equal(t, "cell_id,charge_policy,cycle_life\n"+
		"b1c0,3.6C(80%)-3.6C,1852.000\n"+
		"b1c1,5.4C(40%)-3.6C,\n", buf.String())
}

func TestOutWriterFormats(t *testing.T) {
	ow := NewOutWriter()
	dir := t.TempDir()

	t.Run("json keeps the timeseries envelope", func(t *testing.T) {
		path := filepath.Join(dir, "ts.json")
		require.NoError(t, ow.WriteTimeseries("b1c0", testTimeseries(), testConfig(schema.JSONOut, path), time.Millisecond))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var got schema.TimeseriesResponse
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, "time", got.X)
		assert.Len(t, got.Rows, 2)
		assert.Equal(t, "V", got.Units["voltage"])
	})

	t.Run("csv summaries", func(t *testing.T) {
		path := filepath.Join(dir, "summaries.csv")
		require.NoError(t, ow.WriteCycleSummaries("b1c0", testSummaries(), testConfig(schema.CSVOut, path), time.Millisecond))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Join(summaryColumns, ","), lines[0])
		assert.Equal(t, "2,,1.080,1.070,32.100,,,", lines[2])
	})

	t.Run("parquet cells", func(t *testing.T) {
		path := filepath.Join(dir, "cells.parquet")
		require.NoError(t, ow.WriteCells(testCells(), testConfig(schema.ParquetOut, path), time.Millisecond))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("text", func(t *testing.T) {
		require.NoError(t, ow.WriteCells(testCells(), testConfig(schema.TextOut, ""), time.Millisecond))
	})

	t.Run("parquet to bad path", func(t *testing.T) {
		err := ow.WriteCells(testCells(), testConfig(schema.ParquetOut, "/nonexistent/dir/cells.parquet"), time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error writing Parquet output")
	})
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.xlsx")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteCycleSummaries("b1c0", testSummaries(), testConfig(schema.XLSXOut, path), time.Millisecond))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"cycle_summaries"}, f.GetSheetList())
	rows, err := f.GetRows("cycle_summaries")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ir (Ω)", rows[0][1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "0.0167", rows[1][1])
	assert.Equal(t, "", rows[2][1], "missing readings stay empty")
	assert.Equal(t, "1.08", rows[2][2])
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcd…", truncateText("abcdefgh", 5))
	assert.Equal(t, "…", truncateText("abcdefgh", 1))
	assert.Equal(t, "abc", truncateText("abc", 0))
}

func TestGetMaxTableTextWidth(t *testing.T) {
	cfg := &contract.Config{Width: 200, Precision: 3}
	assert.Equal(t, 60, GetMaxTableTextWidth(cfg, 1))

	cfg.Width = 40
	assert.Equal(t, 12, GetMaxTableTextWidth(cfg, 8))

	cfg.Width = 80
	assert.Equal(t, 34, GetMaxTableTextWidth(cfg, 2))
}

// Package parquet provides data structures and functions for exporting battery cell
// records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/cellplot/cellplot/schema"
	"github.com/parquet-go/parquet-go"
)

// Cell represents one battery cell.
// This struct maps to the cells database table.
type Cell struct {
	// CellID identifies the cell
	CellID string `parquet:"cell_id,snappy"`

	// ChargePolicy is the fast-charge protocol the cell was cycled with
	ChargePolicy string `parquet:"charge_policy,snappy"`

	// CycleLife is the number of cycles until end of life (nullable)
	CycleLife *float64 `parquet:"cycle_life,optional,snappy"`
}

// CycleSummary represents the per-cycle metrics of a cell.
// This struct maps to the cycle_summaries database table.
type CycleSummary struct {
	CellID     string   `parquet:"cell_id,snappy"`
	CycleIndex int32    `parquet:"cycle_index,snappy"`
	IR         *float64 `parquet:"ir,optional,snappy"`
	QCharge    *float64 `parquet:"q_charge,optional,snappy"`
	QDischarge *float64 `parquet:"q_discharge,optional,snappy"`
	TAvg       *float64 `parquet:"tavg,optional,snappy"`
	TMin       *float64 `parquet:"tmin,optional,snappy"`
	TMax       *float64 `parquet:"tmax,optional,snappy"`
	ChargeTime *float64 `parquet:"chargetime,optional,snappy"`
}

// TimeseriesPoint represents one reading inside a cycle.
// This struct maps to the cycle_timeseries database table.
type TimeseriesPoint struct {
	CellID      string   `parquet:"cell_id,snappy"`
	CycleIndex  int32    `parquet:"cycle_index,snappy"`
	Time        *float64 `parquet:"time,optional,snappy"`
	Current     *float64 `parquet:"current,optional,snappy"`
	Voltage     *float64 `parquet:"voltage,optional,snappy"`
	QCharge     *float64 `parquet:"q_charge,optional,snappy"`
	QDischarge  *float64 `parquet:"q_discharge,optional,snappy"`
	Temperature *float64 `parquet:"temperature,optional,snappy"`
}

// WriteCellsParquet writes cells to a Parquet file.
func WriteCellsParquet(data []Cell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCycleSummariesParquet writes cycle summaries to a Parquet file.
func WriteCycleSummariesParquet(data []CycleSummary, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTimeseriesParquet writes timeseries readings to a Parquet file.
func WriteTimeseriesParquet(data []TimeseriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to outputPath. The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// ConvertCells converts schema.Cell records for Parquet export.
func ConvertCells(records []schema.Cell) []Cell {
	result := make([]Cell, len(records))
	for i, record := range records {
		result[i] = Cell{
			CellID:       record.CellID,
			ChargePolicy: record.ChargePolicy,
			CycleLife:    record.CycleLife,
		}
	}
	return result
}

// ConvertCycleSummaries converts the summaries of one cell for Parquet export.
func ConvertCycleSummaries(cellID string, records []schema.CycleSummary) []CycleSummary {
	result := make([]CycleSummary, len(records))
	for i, record := range records {
		result[i] = CycleSummary{
			CellID:     cellID,
			CycleIndex: int32(record.CycleIndex),
			IR:         record.IR,
			QCharge:    record.QCharge,
			QDischarge: record.QDischarge,
			TAvg:       record.TAvg,
			TMin:       record.TMin,
			TMax:       record.TMax,
			ChargeTime: record.ChargeTime,
		}
	}
	return result
}

// ConvertTimeseries converts the readings of one cell for Parquet export.
func ConvertTimeseries(cellID string, records []schema.TimeseriesPoint) []TimeseriesPoint {
	result := make([]TimeseriesPoint, len(records))
	for i, record := range records {
		result[i] = TimeseriesPoint{
			CellID:      cellID,
			CycleIndex:  int32(record.CycleIndex),
			Time:        record.Time,
			Current:     record.Current,
			Voltage:     record.Voltage,
			QCharge:     record.QCharge,
			QDischarge:  record.QDischarge,
			Temperature: record.Temperature,
		}
	}
	return result
}

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
)

// ImportKind names the record type held by an import file.
type ImportKind string

// Record types accepted by ImportCSV.
const (
	ImportCells      ImportKind = "cells"
	ImportSummaries  ImportKind = "summaries"
	ImportTimeseries ImportKind = "timeseries"
)

// ValidImportKinds lists the accepted import kinds.
var ValidImportKinds = map[ImportKind]struct{}{
	ImportCells:      {},
	ImportSummaries:  {},
	ImportTimeseries: {},
}

// ImportCSV reads a CSV file with a header row and writes its records into rs.
// Columns are matched by header name, so their order does not matter and unknown columns
// are ignored. Summaries and timeseries need a cell_id column. It returns the number of
// imported rows.
func ImportCSV(ctx context.Context, rs contract.RecordStore, kind ImportKind, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, contract.BadRequestf("empty csv file")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := cols["cell_id"]; !ok {
		return 0, contract.BadRequestf("csv header has no cell_id column")
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read csv: %w", err)
		}
		records = append(records, rec)
	}

	row := csvRow{cols: cols}
	switch kind {
	case ImportCells:
		cells := make([]schema.Cell, 0, len(records))
		for i, rec := range records {
			row.rec = rec
			life, err := row.float("cycle_life")
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+2, err)
			}
			cells = append(cells, schema.Cell{
				CellID:       row.text("cell_id"),
				ChargePolicy: row.text("charge_policy"),
				CycleLife:    life,
			})
		}
		if err := rs.InsertCells(ctx, cells); err != nil {
			return 0, err
		}
		return len(cells), nil

	case ImportSummaries:
		byCell := map[string][]schema.CycleSummary{}
		var order []string
		for i, rec := range records {
			row.rec = rec
			s, err := row.summary()
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+2, err)
			}
			id := row.text("cell_id")
			if _, seen := byCell[id]; !seen {
				order = append(order, id)
			}
			byCell[id] = append(byCell[id], s)
		}
		for _, id := range order {
			if err := rs.InsertCycleSummaries(ctx, id, byCell[id]); err != nil {
				return 0, err
			}
		}
		return len(records), nil

	case ImportTimeseries:
		byCell := map[string][]schema.TimeseriesPoint{}
		var order []string
		for i, rec := range records {
			row.rec = rec
			p, err := row.point()
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+2, err)
			}
			id := row.text("cell_id")
			if _, seen := byCell[id]; !seen {
				order = append(order, id)
			}
			byCell[id] = append(byCell[id], p)
		}
		for _, id := range order {
			if err := rs.InsertTimeseries(ctx, id, byCell[id]); err != nil {
				return 0, err
			}
		}
		return len(records), nil

	default:
		return 0, contract.BadRequestf("unknown import kind %q. must be cells, summaries, timeseries", kind)
	}
}

// csvRow reads named columns of one record.
type csvRow struct {
	cols map[string]int
	rec  []string
}

func (r csvRow) text(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

// float parses a nullable number. Empty cells, "nan" and "null" are stored as NULL.
func (r csvRow) float(col string) (*float64, error) {
	s := r.text(col)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none":
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %q is not a number", col, s)
	}
	return &f, nil
}

func (r csvRow) cycle() (int, error) {
	s := r.text("cycle_index")
	if s == "" {
		return 0, fmt.Errorf("missing cycle_index")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column cycle_index: %q is not a number", s)
	}
	return int(f), nil
}

func (r csvRow) summary() (schema.CycleSummary, error) {
	var s schema.CycleSummary
	var err error
	if s.CycleIndex, err = r.cycle(); err != nil {
		return s, err
	}
	targets := []struct {
		col string
		dst **float64
	}{
		{"ir", &s.IR}, {"q_charge", &s.QCharge}, {"q_discharge", &s.QDischarge},
		{"tavg", &s.TAvg}, {"tmin", &s.TMin}, {"tmax", &s.TMax}, {"chargetime", &s.ChargeTime},
	}
	for _, t := range targets {
		if *t.dst, err = r.float(t.col); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r csvRow) point() (schema.TimeseriesPoint, error) {
	var p schema.TimeseriesPoint
	var err error
	if p.CycleIndex, err = r.cycle(); err != nil {
		return p, err
	}
	targets := []struct {
		col string
		dst **float64
	}{
		{"time", &p.Time}, {"current", &p.Current}, {"voltage", &p.Voltage},
		{"q_charge", &p.QCharge}, {"q_discharge", &p.QDischarge}, {"temperature", &p.Temperature},
	}
	for _, t := range targets {
		if *t.dst, err = r.float(t.col); err != nil {
			return p, err
		}
	}
	return p, nil
}

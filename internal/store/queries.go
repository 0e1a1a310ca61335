package store

import (
	"context"
	"strings"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
)

// timeseriesColumns are the measurement columns of a timeseries row.
var timeseriesColumns = []string{"current", "voltage", "q_charge", "q_discharge", "temperature"}

// FetchCells lists cells matching search. An empty result is not an error.
func FetchCells(ctx context.Context, rs contract.RecordStore, search string) ([]schema.Cell, error) {
	return rs.ListCells(ctx, strings.TrimSpace(search))
}

// FetchCycleSummaries returns the summaries of a cell. A missing cell ID is a bad request
// and a cell without summaries is not found.
func FetchCycleSummaries(ctx context.Context, rs contract.RecordStore, cellID string) ([]schema.CycleSummary, error) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" {
		return nil, contract.BadRequestf("missing cell_id")
	}
	rows, err := rs.GetCycleSummaries(ctx, cellID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, contract.NotFoundf("no cycle summaries for cell %q", cellID)
	}
	return rows, nil
}

// FetchTimeseries returns the readings of a cell together with their units.
// cycleIndex may be empty; otherwise it must be numeric.
func FetchTimeseries(ctx context.Context, rs contract.RecordStore, cellID, cycleIndex string) (*schema.TimeseriesResponse, error) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" {
		return nil, contract.BadRequestf("missing cell_id")
	}
	ci, err := contract.ParseCycleIndex(cycleIndex)
	if err != nil {
		return nil, err
	}
	rows, err := rs.GetCycleTimeseries(ctx, cellID, ci)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if ci != nil {
			return nil, contract.NotFoundf("no timeseries for cell %q cycle %d", cellID, *ci)
		}
		return nil, contract.NotFoundf("no timeseries for cell %q", cellID)
	}

	units := make(map[string]string, len(timeseriesColumns))
	for _, col := range timeseriesColumns {
		units[col] = schema.DefaultTimeseriesUnits[col]
	}
	return &schema.TimeseriesResponse{Rows: rows, Units: units, X: "time"}, nil
}

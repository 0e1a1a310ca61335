// Package contract provides interfaces and shared utilities for the internal architecture of cellplot.
package contract

import (
	"context"
	"time"

	"github.com/cellplot/cellplot/schema"
)

// RecordStore defines the read and write operations over battery test records.
// This allows handlers and the chart pipeline to be tested without a database.
type RecordStore interface {
	// --- Reads ---

	// ListCells returns all cells, or those whose ID contains search when it is not empty.
	ListCells(ctx context.Context, search string) ([]schema.Cell, error)

	// GetCycleSummaries returns every cycle summary of a cell ordered by cycle index.
	GetCycleSummaries(ctx context.Context, cellID string) ([]schema.CycleSummary, error)

	// GetCycleSummariesInRange returns summaries with start <= cycle_index <= end ordered by cycle index.
	GetCycleSummariesInRange(ctx context.Context, cellID string, start, end int) ([]schema.CycleSummary, error)

	// GetCycleTimeseries returns readings of a cell ordered by time, restricted to one cycle
	// when cycleIndex is not nil.
	GetCycleTimeseries(ctx context.Context, cellID string, cycleIndex *int) ([]schema.TimeseriesPoint, error)

	// --- Writes ---

	// InsertCells stores cells, replacing rows with the same cell ID.
	InsertCells(ctx context.Context, cells []schema.Cell) error

	// InsertCycleSummaries stores the cycle summaries of a cell.
	InsertCycleSummaries(ctx context.Context, cellID string, summaries []schema.CycleSummary) error

	// InsertTimeseries stores timeseries readings of a cell.
	InsertTimeseries(ctx context.Context, cellID string, points []schema.TimeseriesPoint) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for reaching the configured record store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() RecordStore
}

// ByteSink persists rendered artifacts and hands back a locator for them.
type ByteSink interface {
	// Store writes data under a name derived from suggestedName and returns its URL or path.
	Store(data []byte, suggestedName string) (string, error)

	// Prune removes artifacts older than maxAge and reports how many were removed.
	Prune(maxAge time.Duration) (int, error)
}

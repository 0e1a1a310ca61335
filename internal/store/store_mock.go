package store

import (
	"context"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	records, _ := ret.Get(0).(contract.RecordStore)
	return records
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// ListCells implements the RecordStore interface.
func (m *MockRecordStore) ListCells(ctx context.Context, search string) ([]schema.Cell, error) {
	args := m.Called(ctx, search)
	cells, _ := args.Get(0).([]schema.Cell)
	return cells, args.Error(1)
}

// GetCycleSummaries implements the RecordStore interface.
func (m *MockRecordStore) GetCycleSummaries(ctx context.Context, cellID string) ([]schema.CycleSummary, error) {
	args := m.Called(ctx, cellID)
	rows, _ := args.Get(0).([]schema.CycleSummary)
	return rows, args.Error(1)
}

// GetCycleSummariesInRange implements the RecordStore interface.
func (m *MockRecordStore) GetCycleSummariesInRange(ctx context.Context, cellID string, start, end int) ([]schema.CycleSummary, error) {
	args := m.Called(ctx, cellID, start, end)
	rows, _ := args.Get(0).([]schema.CycleSummary)
	return rows, args.Error(1)
}

// GetCycleTimeseries implements the RecordStore interface.
func (m *MockRecordStore) GetCycleTimeseries(ctx context.Context, cellID string, cycleIndex *int) ([]schema.TimeseriesPoint, error) {
	args := m.Called(ctx, cellID, cycleIndex)
	rows, _ := args.Get(0).([]schema.TimeseriesPoint)
	return rows, args.Error(1)
}

// InsertCells implements the RecordStore interface.
func (m *MockRecordStore) InsertCells(ctx context.Context, cells []schema.Cell) error {
	args := m.Called(ctx, cells)
	return args.Error(0)
}

// InsertCycleSummaries implements the RecordStore interface.
func (m *MockRecordStore) InsertCycleSummaries(ctx context.Context, cellID string, summaries []schema.CycleSummary) error {
	args := m.Called(ctx, cellID, summaries)
	return args.Error(0)
}

// InsertTimeseries implements the RecordStore interface.
func (m *MockRecordStore) InsertTimeseries(ctx context.Context, cellID string, points []schema.TimeseriesPoint) error {
	args := m.Called(ctx, cellID, points)
	return args.Error(0)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

package sink

import (
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockByteSink is a mock implementation of ByteSink for testing.
type MockByteSink struct {
	mock.Mock
}

var _ contract.ByteSink = &MockByteSink{} // Compile-time check

// Store implements the ByteSink interface.
func (m *MockByteSink) Store(data []byte, suggestedName string) (string, error) {
	args := m.Called(data, suggestedName)
	return args.String(0), args.Error(1)
}

// Prune implements the ByteSink interface.
func (m *MockByteSink) Prune(maxAge time.Duration) (int, error) {
	args := m.Called(maxAge)
	return args.Int(0), args.Error(1)
}

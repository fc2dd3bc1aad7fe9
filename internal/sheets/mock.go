package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/cashflow/internal/analytics"
)

// MockWriter is a DashboardWriter that records calls, for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, result *analytics.Result) error
	LastResult     *analytics.Result
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error  error
	Result *analytics.Result
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements DashboardWriter.
func (m *MockWriter) Write(ctx context.Context, result *analytics.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastResult = result

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, result)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{Result: result, Error: err})
	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return err from every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, *analytics.Result) error {
		return err
	}
}

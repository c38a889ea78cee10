package oracle

import (
	"context"
	"sync"
)

// MockResponse is a canned completion for MockOracle.
type MockResponse struct {
	Text string
	Err  error
}

// MockOracle is a deterministic Oracle for tests and offline development.
// It returns canned responses in FIFO order and records every prompt.
// When the queue is empty it falls back to Default, or fails with
// ErrUnavailable if Default is empty.
type MockOracle struct {
	mu        sync.Mutex
	responses []MockResponse
	Default   string
	Prompts   []string
}

func NewMockOracle(responses ...MockResponse) *MockOracle {
	return &MockOracle{responses: responses}
}

func (m *MockOracle) Complete(ctx context.Context, prompt string, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", &ErrUnavailable{Err: err}
	}

	if len(m.responses) == 0 {
		if m.Default != "" {
			return m.Default, nil
		}
		return "", &ErrUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return "", resp.Err
	}
	if resp.Text == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Text, nil
}

func (m *MockOracle) Name() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockOracle) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Complete calls made.
func (m *MockOracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

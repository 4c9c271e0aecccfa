package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockResponse scripts one reply of a MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error

	// Delay holds the reply back. The call fails with the context error if
	// ctx ends first.
	Delay time.Duration
}

var errScriptExhausted = errors.New("mock script exhausted")

// MockProvider replays a script of replies in order and records every
// request it was sent. Once the script runs out each call fails with
// ErrProviderUnavailable.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	step, ok := m.record(req)
	if !ok {
		return nil, &ErrProviderUnavailable{Err: errScriptExhausted}
	}

	if step.Delay > 0 {
		timer := time.NewTimer(step.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &Response{Text: step.Text, Usage: step.Usage, Model: m.ModelID(), StopReason: "end"}, nil
}

// record stores req and pops the next scripted step.
func (m *MockProvider) record(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		return MockResponse{}, false
	}
	step := m.script[0]
	m.script = m.script[1:]
	return step, true
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt is the final message of the latest request, or "".
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.Calls); n > 0 {
		if msgs := m.Calls[n-1].Messages; len(msgs) > 0 {
			return msgs[len(msgs)-1].Content
		}
	}
	return ""
}

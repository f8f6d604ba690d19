package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockResponse is one scripted reply. Content goes through the same
// empty, truncation and schema checks as a real provider's reply.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string // "end" when empty
	Err        error

	// Delay holds the reply back, returning ctx.Err() if the context
	// ends first.
	Delay time.Duration
}

// MockProvider replays scripted replies in order and records every
// request it receives. It backs the "mock" provider and the tests.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []Request
}

// NewMockProvider creates a MockProvider that will answer with replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

// Generate pops the next reply. An exhausted script reports the provider
// as unavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if r.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Delay):
		}
	}
	if r.Err != nil {
		return nil, r.Err
	}

	stop := r.StopReason
	if stop == "" {
		stop = "end"
	}
	content, err := finishContent(req, r.Content, "mock", stop)
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      r.Usage,
		Model:      "mock",
		StopReason: stop,
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a reply to the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

package model

import (
	"context"
	"fmt"
	"time"
)

// Info contains metadata about an adapter implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "local", "manual", etc.
}

// Adapter is the minimal capability the evaluator needs from a model: turn
// a prompt into a response text. Implementations must honor ctx
// cancellation while blocked on generation.
type Adapter interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the adapter implementation.
	Info() Info
}

// MockAdapter is a lightweight in-memory Adapter useful for tests and
// examples. It returns canned responses keyed by prompt and can simulate
// generation latency.
type MockAdapter struct {
	info      Info
	responses map[string]string
	delay     time.Duration
	err       error
}

// NewMockAdapter constructs a MockAdapter.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned response for a prompt.
func (m *MockAdapter) AddResponse(prompt, response string) { m.responses[prompt] = response }

// WithDelay makes Generate sleep for d before answering, so latency
// measurement can be exercised deterministically.
func (m *MockAdapter) WithDelay(d time.Duration) *MockAdapter {
	m.delay = d
	return m
}

// WithError makes every Generate call fail with err.
func (m *MockAdapter) WithError(err error) *MockAdapter {
	m.err = err
	return m
}

// Generate implements Adapter.
func (m *MockAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements Adapter.
func (m *MockAdapter) Info() Info { return m.info }

// StaticAdapter wraps a pre-captured response, covering the manual-entry
// mode where a human pastes a model's output for evaluation.
type StaticAdapter struct {
	info     Info
	response string
}

// NewStaticAdapter returns an Adapter that always answers with response,
// attributed to the named model.
func NewStaticAdapter(modelName, response string) *StaticAdapter {
	return &StaticAdapter{
		info:     Info{Name: modelName, Provider: "manual"},
		response: response,
	}
}

// Generate implements Adapter.
func (s *StaticAdapter) Generate(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

// Info implements Adapter.
func (s *StaticAdapter) Info() Info { return s.info }

package provider

import (
	"context"
	"sync"
)

// MockProvider is a mock AI provider for testing. It is safe for concurrent
// use.
type MockProvider struct {
	Response string // Text returned by Generate
	Err      error  // Error returned by Generate, if set

	// Started, if non-nil, receives a value when a call begins.
	Started chan struct{}
	// Release, if non-nil, is waited on before a call returns.
	Release chan struct{}

	mu         sync.Mutex
	callCount  int
	lastPrompt string
}

// NewMockProvider creates a mock provider that answers with response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

// Generate records the prompt and returns the canned response.
func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the prompt of the most recent call.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// Reset resets the call count and last prompt.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastPrompt = ""
}

// Verify MockProvider implements AIProvider
var _ AIProvider = (*MockProvider)(nil)

package mock

import (
	"context"
	"sync"
)

// MockImageAnalyzer is a test double for ai.ImageAnalyzer.
// It allows custom behavior injection via function fields.
type MockImageAnalyzer struct {
	// AnalyzeImageFunc is called by AnalyzeImage if set.
	// If nil, returns a canned description mentioning the reference.
	AnalyzeImageFunc func(ctx context.Context, ref string, instruction string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockImageAnalyzer creates a mock image analyzer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockImageAnalyzer() *MockImageAnalyzer {
	return &MockImageAnalyzer{}
}

// AnalyzeImage returns a canned description that embeds the image reference,
// so tests can assert which image was analyzed.
func (m *MockImageAnalyzer) AnalyzeImage(ctx context.Context, ref string, instruction string) (string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.AnalyzeImageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, ref, instruction)
	}

	return "mock description of " + ref, nil
}

// CallCount returns the number of times AnalyzeImage was called.
func (m *MockImageAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockImageAnalyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.AnalyzeImageFunc = nil
}

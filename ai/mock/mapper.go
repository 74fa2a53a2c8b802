package mock

import (
	"context"
	"sync"

	"github.com/poiesic/ticketgraph/core"
)

// MockMapper is a test double for ai.TaxonomyMapper.
// It allows custom behavior injection via function fields.
type MockMapper struct {
	// MapTaxonomyFunc is called by MapTaxonomy if set.
	// If nil, picks the first entry of every vocabulary list.
	MapTaxonomyFunc func(ctx context.Context, enrichment *core.EnrichmentResult, vocab *core.Vocabulary, instruction string) (*core.TaxonomyMapping, error)

	mu        sync.Mutex
	callCount int
}

// NewMockMapper creates a mock mapper with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockMapper() *MockMapper {
	return &MockMapper{}
}

// MapTaxonomy picks the first entry of every vocabulary list, so the default
// result always passes vocabulary validation.
func (m *MockMapper) MapTaxonomy(ctx context.Context, enrichment *core.EnrichmentResult, vocab *core.Vocabulary, instruction string) (*core.TaxonomyMapping, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.MapTaxonomyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, enrichment, vocab, instruction)
	}

	return &core.TaxonomyMapping{
		Module:           first(vocab.Modules),
		Functionality:    first(vocab.Functionalities),
		SymptomCategory:  first(vocab.Symptoms),
		CauseCategory:    first(vocab.Causes),
		SolutionCategory: first(vocab.Solutions),
	}, nil
}

// CallCount returns the number of times MapTaxonomy was called.
func (m *MockMapper) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockMapper) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.MapTaxonomyFunc = nil
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

package mock

import (
	"context"
	"sync"

	"github.com/poiesic/ticketgraph/core"
)

// MockEnricher is a test double for ai.GraphEnricher.
// It allows custom behavior injection via function fields.
type MockEnricher struct {
	// EnrichFunc is called by Enrich if set.
	// If nil, builds an enrichment result from the verdict fields.
	EnrichFunc func(ctx context.Context, ticket *core.RawTicket, verdict *core.ClassificationVerdict, instruction string) (*core.EnrichmentResult, error)

	mu        sync.Mutex
	callCount int
}

// NewMockEnricher creates a mock enricher with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// Enrich builds a deterministic enrichment result from the classification
// verdict: the symptom becomes the user description, the cause the root
// cause, and the solution a single ordered step.
func (m *MockEnricher) Enrich(ctx context.Context, ticket *core.RawTicket, verdict *core.ClassificationVerdict, instruction string) (*core.EnrichmentResult, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.EnrichFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, ticket, verdict, instruction)
	}

	return &core.EnrichmentResult{
		Symptom: core.SymptomAnalysis{
			UserDescription:      verdict.Symptom,
			TechnicalDescription: "mock technical analysis of: " + verdict.Symptom,
		},
		Entities: core.GraphEntities{
			Modules: []string{"MockModule"},
		},
		Solution: core.AtomicSolution{
			RootCause: verdict.Cause,
			Steps:     []string{verdict.Solution},
		},
	}, nil
}

// CallCount returns the number of times Enrich was called.
func (m *MockEnricher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEnricher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EnrichFunc = nil
}

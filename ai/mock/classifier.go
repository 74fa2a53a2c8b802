package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/ticketgraph/core"
)

// MockClassifier is a test double for ai.TicketClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword heuristics.
	ClassifyFunc func(ctx context.Context, ticket *core.RawTicket, instruction string) (*core.ClassificationVerdict, error)

	mu        sync.Mutex
	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify produces a deterministic verdict from the ticket content.
// Default behavior: tickets whose conversation mentions "resolved" or
// "solution" are useful, everything else is useless. The symptom comes from
// the summary and the solution from the last message.
func (m *MockClassifier) Classify(ctx context.Context, ticket *core.RawTicket, instruction string) (*core.ClassificationVerdict, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ClassifyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, ticket, instruction)
	}

	var lastText string
	useful := false
	for _, msg := range ticket.Conversation {
		lower := strings.ToLower(msg.Text)
		if strings.Contains(lower, "resolved") || strings.Contains(lower, "solution") {
			useful = true
		}
		if strings.TrimSpace(msg.Text) != "" {
			lastText = msg.Text
		}
	}

	if !useful {
		return core.NewClassificationVerdict(
			core.ClassificationUseless,
			"no definitive solution found",
			"", "", "", nil,
		), nil
	}

	return core.NewClassificationVerdict(
		core.ClassificationUseful,
		"contains a definitive solution",
		ticket.Summary,
		"mock cause",
		lastText,
		[]string{"mock"},
	), nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ClassifyFunc = nil
}

// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of the five pipeline
// collaborators (ai.ImageAnalyzer, ai.TicketClassifier, ai.GraphEnricher,
// ai.TaxonomyMapper, ai.Embedder) plus ai.AIProvider for use in unit tests.
// The mocks allow tests to run without external AI services and enable
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	verdict, err := mockProvider.Classifier().Classify(ctx, ticket, "")
//
//	// Custom behavior injection
//	mockClassifier := mock.NewMockClassifier()
//	mockClassifier.ClassifyFunc = func(ctx context.Context, ticket *core.RawTicket, instruction string) (*core.ClassificationVerdict, error) {
//	    return nil, errors.New("model unavailable")
//	}
//
//	// Check call counts
//	count := mockClassifier.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockClassifier: keyword heuristics over the conversation text
//   - MockEnricher: derives an enrichment result from the verdict
//   - MockMapper: picks the first entry of every vocabulary list
//   - MockImageAnalyzer: canned description embedding the image reference
//   - MockEmbedder: deterministic vectors based on text hash
package mock

package ai

import (
	"context"

	"github.com/poiesic/ticketgraph/core"
)

// ImageAnalyzer describes the vision collaborator: given an image reference
// it returns a text description of visible errors and screens.
// Implementations must be thread-safe for concurrent use.
type ImageAnalyzer interface {
	// AnalyzeImage resolves the image reference and returns a technical
	// description of its contents. Returns an error if the image cannot be
	// fetched or analyzed; callers are expected to log and continue.
	AnalyzeImage(ctx context.Context, ref string, instruction string) (string, error)
}

// TicketClassifier describes the classification collaborator.
// Implementations must be thread-safe for concurrent use.
type TicketClassifier interface {
	// Classify analyzes a ticket and returns a structured verdict. The
	// instruction is the resolved classification template. Returned verdicts
	// always satisfy the UTIL consistency invariant (enforced at
	// construction by core.NewClassificationVerdict).
	Classify(ctx context.Context, ticket *core.RawTicket, instruction string) (*core.ClassificationVerdict, error)
}

// GraphEnricher describes the graph enrichment collaborator.
// Implementations must be thread-safe for concurrent use.
type GraphEnricher interface {
	// Enrich extracts richer structured entities from a ticket approved by
	// classification. The instruction is the resolved enrichment template.
	Enrich(ctx context.Context, ticket *core.RawTicket, verdict *core.ClassificationVerdict, instruction string) (*core.EnrichmentResult, error)
}

// TaxonomyMapper describes the mapping collaborator: it projects an
// enrichment result onto the closed vocabularies fetched at batch start.
// Implementations must be thread-safe for concurrent use.
type TaxonomyMapper interface {
	// MapTaxonomy chooses, for every mapping field, one value from the
	// supplied vocabulary. The collaborator is instructed to stay inside the
	// lists; callers re-validate with core.NormalizeMapping before persisting.
	MapTaxonomy(ctx context.Context, enrichment *core.EnrichmentResult, vocab *core.Vocabulary, instruction string) (*core.TaxonomyMapping, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider aggregates the AI collaborators for convenient initialization
// and lifecycle management. A provider creates and manages the collaborator
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// ImageAnalyzer returns the vision analysis service.
	ImageAnalyzer() ImageAnalyzer

	// Classifier returns the ticket classification service.
	Classifier() TicketClassifier

	// Enricher returns the graph enrichment service.
	Enricher() GraphEnricher

	// Mapper returns the taxonomy mapping service.
	Mapper() TaxonomyMapper

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}

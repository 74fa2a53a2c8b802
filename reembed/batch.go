package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
)

// BatchProcessor regenerates symptom embeddings for batches of ticket
// records.
type BatchProcessor struct {
	repo           graph.TicketRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo graph.TicketRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the symptom text of a batch of records and stores the new
// vectors. Vectors are normalized after embedding to keep the cosine scan
// meaningful.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.GraphTicketRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		text := record.SymptomDetail
		if text == "" {
			text = record.Title
		}
		texts[i] = text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i, record := range records {
		vector := NormalizeVector(embeddings[i])
		if err := bp.repo.UpdateSymptomVector(ctx, record.TicketID, vector); err != nil {
			return fmt.Errorf("failed to update vector for %s: %w", record.TicketID, err)
		}
	}

	return nil
}

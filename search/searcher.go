package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
)

// defaultMinSimilarity is the cosine similarity floor for vector hits.
const defaultMinSimilarity = 0.60

// Searcher provides semantic search over the symptom-detail vectors of
// persisted ticket records.
type Searcher struct {
	tickets       graph.TicketRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for vector hits.
// Values are clamped to [0, 1]. Default is 0.60.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		if min < 0 {
			min = 0
		}
		if min > 1 {
			min = 1
		}
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	tickets graph.TicketRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if tickets == nil {
		return nil, ErrTicketRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		tickets:       tickets,
		embedder:      provider.Embedder(),
		minSimilarity: defaultMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for ticket records whose symptom matches the query.
// Returns up to maxHits results ranked by relevance: cosine similarity of
// the symptom vector, boosted when every query word appears verbatim in the
// record's text.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.TicketMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits < 1 {
		maxHits = 1
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.tickets.FindSimilarSymptoms(ctx, embedding, s.minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar symptoms", "err", err)
		return nil, err
	}

	// Verbatim match boost over the record's readable text.
	for _, match := range matches {
		document := match.Record.Title + " " +
			match.Record.SymptomDetail + " " +
			match.Record.SolutionDetail
		if containsAllQueryWords(document, query) {
			match.Score += 0.3
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxHits {
		matches = matches[:maxHits]
	}

	return matches, nil
}

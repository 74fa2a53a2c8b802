package graph

import (
	"context"

	"github.com/poiesic/ticketgraph/core"
)

// Stats summarizes the node population of the knowledge graph.
type Stats struct {
	Tickets    int `json:"tickets"`
	Categories int `json:"categories"`
	Resources  int `json:"resources"`
	Entities   int `json:"entities"`
}

// TicketRepository persists ingested ticket records and the shared graph
// nodes they hang off. Implementations must be thread-safe and support
// concurrent access.
type TicketRepository interface {
	// UpsertTicketRecords merges one or more ticket records into the graph.
	// Category, resource and entity nodes are merged by content identity, so
	// re-ingesting a ticket updates it in place and shared nodes are never
	// duplicated. Stale links from a previous version of the ticket are
	// removed.
	UpsertTicketRecords(ctx context.Context, records ...*core.GraphTicketRecord) error

	// GetTicketRecord retrieves a single ticket record by its ticket ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetTicketRecord(ctx context.Context, ticketID string) (*core.GraphTicketRecord, error)

	// ListExistingIDs returns the set of ticket IDs already persisted.
	// Taken as a snapshot at batch start to drive deduplication.
	ListExistingIDs(ctx context.Context) (map[string]bool, error)

	// FindSimilarSymptoms finds ticket records whose symptom vector is
	// similar to the given vector. Returns records with similarity >=
	// minSimilarity, up to limit results, ordered by similarity score
	// (highest first).
	FindSimilarSymptoms(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.TicketMatch, error)

	// IterateTicketRecords calls fn for every persisted ticket record.
	// Iteration stops at the first error from fn.
	IterateTicketRecords(ctx context.Context, fn func(record *core.GraphTicketRecord) error) error

	// UpdateSymptomVector replaces the stored symptom embedding of a ticket.
	// Returns ErrNotFound if the ticket doesn't exist.
	UpdateSymptomVector(ctx context.Context, ticketID string, vector []float32) error

	// Stats counts the nodes currently in the graph.
	Stats(ctx context.Context) (*Stats, error)

	// WipeAll removes every record and node. Used by full re-ingestion.
	WipeAll(ctx context.Context) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
)

// TicketRepository implements graph.TicketRepository for BadgerDB.
type TicketRepository struct {
	backend *Backend
}

var _ graph.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(backend *Backend) *TicketRepository {
	return &TicketRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *TicketRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TicketRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertTicketRecords merges ticket records into the graph.
func (r *TicketRepository) UpsertTicketRecords(ctx context.Context, records ...*core.GraphTicketRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateTicketRecord(record); err != nil {
				return err
			}
			if record.IngestedAt.IsZero() {
				record.IngestedAt = time.Now().UTC()
			}

			key := makeTicketKey(record.TicketID)
			old, err := r.readTicketRecord(tx, key)
			if err != nil {
				return err
			}

			if err := tx.Set(key, graph.MarshalTicketRecord(record)); err != nil {
				return err
			}

			// Merge shared nodes. Content-based keys make this an upsert:
			// writing an existing node is a no-op in effect.
			if err := writeSharedNodes(tx, record); err != nil {
				return err
			}

			newLinks := linkKeys(record)
			for _, link := range newLinks {
				if err := tx.Set(link, graph.MarshalID(core.IDFromContent(record.TicketID))); err != nil {
					return err
				}
			}

			// Drop links a previous version of the ticket no longer has.
			if old != nil {
				current := make(map[string]bool, len(newLinks))
				for _, link := range newLinks {
					current[string(link)] = true
				}
				for _, stale := range linkKeys(old) {
					if !current[string(stale)] {
						if err := tx.Delete(stale); err != nil {
							return err
						}
					}
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetTicketRecord retrieves a single ticket record by its ticket ID.
func (r *TicketRepository) GetTicketRecord(ctx context.Context, ticketID string) (*core.GraphTicketRecord, error) {
	var record *core.GraphTicketRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readTicketRecord(tx, makeTicketKey(ticketID))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, graph.ErrNotFound
	}
	return record, nil
}

// ListExistingIDs returns the set of ticket IDs already persisted.
func (r *TicketRepository) ListExistingIDs(ctx context.Context) (map[string]bool, error) {
	ids := make(map[string]bool)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ticketRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids[ticketIDFromKey(iter.Item().Key())] = true
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindSimilarSymptoms finds ticket records by symptom vector similarity.
func (r *TicketRepository) FindSimilarSymptoms(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.TicketMatch, error) {
	if limit <= 0 {
		return nil, graph.ErrInvalidQuery
	}

	var matches []*core.TicketMatch
	err := r.iterate(func(record *core.GraphTicketRecord) error {
		if len(record.SymptomVector) == 0 {
			return nil
		}

		// Cosine similarity (dot product for normalized vectors)
		similarity := dotProduct(vector, record.SymptomVector)
		if similarity >= minSimilarity {
			matches = append(matches, &core.TicketMatch{
				Record: record,
				Score:  similarity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.TicketMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// IterateTicketRecords calls fn for every persisted ticket record.
func (r *TicketRepository) IterateTicketRecords(ctx context.Context, fn func(record *core.GraphTicketRecord) error) error {
	return r.iterate(fn)
}

// UpdateSymptomVector replaces the stored symptom embedding of a ticket.
func (r *TicketRepository) UpdateSymptomVector(ctx context.Context, ticketID string, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTicketKey(ticketID)
		record, err := r.readTicketRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return graph.ErrNotFound
		}

		record.SymptomVector = vector
		if err := tx.Set(key, graph.MarshalTicketRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Stats counts the nodes currently in the graph.
func (r *TicketRepository) Stats(ctx context.Context) (*graph.Stats, error) {
	stats := &graph.Stats{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		stats.Tickets = countPrefix(tx, ticketRecordPrefix+":")
		stats.Categories = countPrefix(tx, categoryNodePrefix+":")
		stats.Resources = countPrefix(tx, resourceNodePrefix+":")
		stats.Entities = countPrefix(tx, entityNodePrefix+":")
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// WipeAll removes every record and node.
func (r *TicketRepository) WipeAll(ctx context.Context) error {
	return r.backend.DropAll()
}

func (r *TicketRepository) iterate(fn func(record *core.GraphTicketRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ticketRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.GraphTicketRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = graph.UnmarshalTicketRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

func (r *TicketRepository) readTicketRecord(tx *badger.Txn, key []byte) (*core.GraphTicketRecord, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.GraphTicketRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = graph.UnmarshalTicketRecord(val)
		return err
	})
	return record, err
}

// writeSharedNodes merges the category, resource and entity nodes a record
// references.
func writeSharedNodes(tx *badger.Txn, record *core.GraphTicketRecord) error {
	for _, node := range categoryNodes(record) {
		if err := tx.Set(makeCategoryNodeKey(node.ContentID()), graph.MarshalCategoryNode(node)); err != nil {
			return err
		}
	}
	for _, node := range resourceNodes(record) {
		if err := tx.Set(makeResourceNodeKey(node.ContentID()), graph.MarshalResourceNode(node)); err != nil {
			return err
		}
	}
	for _, node := range entityNodes(record) {
		if err := tx.Set(makeEntityNodeKey(node.ContentID()), graph.MarshalEntityNode(node)); err != nil {
			return err
		}
	}
	return nil
}

// linkKeys returns the link entries connecting a record to its shared nodes.
func linkKeys(record *core.GraphTicketRecord) [][]byte {
	var links [][]byte
	for _, node := range categoryNodes(record) {
		links = append(links, makeLinkKey(categoryLinkPrefix, node.ContentID(), record.TicketID))
	}
	for _, node := range entityNodes(record) {
		links = append(links, makeLinkKey(entityLinkPrefix, node.ContentID(), record.TicketID))
	}
	return links
}

func categoryNodes(record *core.GraphTicketRecord) []core.CategoryNode {
	var nodes []core.CategoryNode
	pairs := []struct {
		kind core.CategoryKind
		name string
	}{
		{core.CategorySymptom, record.SymptomCategory},
		{core.CategoryCause, record.CauseCategory},
		{core.CategorySolution, record.SolutionCategory},
	}
	for _, pair := range pairs {
		if pair.name != "" {
			nodes = append(nodes, core.CategoryNode{Kind: pair.kind, Name: pair.name})
		}
	}
	return nodes
}

func resourceNodes(record *core.GraphTicketRecord) []core.ResourceNode {
	var nodes []core.ResourceNode
	if record.System != "" {
		nodes = append(nodes, core.ResourceNode{Level: 1, Name: record.System})
	}
	if record.Module != "" {
		nodes = append(nodes, core.ResourceNode{Level: 2, Name: record.Module, Parent: record.System})
	}
	if record.Functionality != "" {
		nodes = append(nodes, core.ResourceNode{Level: 3, Name: record.Functionality, Parent: record.Module})
	}
	return nodes
}

func entityNodes(record *core.GraphTicketRecord) []core.EntityNode {
	var nodes []core.EntityNode
	for _, code := range record.ErrorCodes {
		nodes = append(nodes, core.EntityNode{Kind: core.EntityError, Code: code})
	}
	for _, code := range record.EventCodes {
		nodes = append(nodes, core.EntityNode{Kind: core.EntityEvent, Code: code})
	}
	for _, tag := range record.Tags {
		nodes = append(nodes, core.EntityNode{Kind: core.EntityTag, Code: tag})
	}
	return nodes
}

func countPrefix(tx *badger.Txn, prefix string) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

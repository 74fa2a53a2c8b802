package taxonomy

import (
	"context"
	"fmt"

	"github.com/poiesic/ticketgraph/core"
)

// Seed populates an empty store with the baseline taxonomy: a root resource
// node for the target system, a "General" module under it, and the catch-all
// category every mapping can degrade to. Existing nodes make individual
// inserts fail on the unique constraint; those are skipped, so seeding is
// idempotent.
func Seed(ctx context.Context, store Store, system string) error {
	rootID, err := ensureNode(ctx, store, &Node{
		Type:        TypeResource,
		Name:        system,
		Description: "Root of the resource hierarchy",
	})
	if err != nil {
		return err
	}

	if _, err := ensureNode(ctx, store, &Node{
		Type:        TypeResource,
		Name:        "General",
		Description: "Catch-all module",
		ParentID:    &rootID,
	}); err != nil {
		return err
	}

	for _, nodeType := range []string{TypeSymptom, TypeCause, TypeSolution} {
		if _, err := ensureNode(ctx, store, &Node{
			Type:        nodeType,
			Name:        core.FallbackCategory,
			Description: "Catch-all category",
		}); err != nil {
			return err
		}
	}

	return nil
}

// ensureNode creates a node unless one with the same type and name already
// exists. Lookup happens by name, not by the unique constraint: SQLite
// treats NULL parents as distinct, so parentless roots would otherwise
// duplicate on a second seed run.
func ensureNode(ctx context.Context, store Store, node *Node) (int64, error) {
	existing, err := store.ListNodes(ctx, node.Type)
	if err != nil {
		return 0, fmt.Errorf("seed %s/%s: %w", node.Type, node.Name, err)
	}
	for _, candidate := range existing {
		if candidate.Name == node.Name {
			return candidate.ID, nil
		}
	}

	id, err := store.CreateNode(ctx, node)
	if err != nil {
		return 0, fmt.Errorf("seed %s/%s: %w", node.Type, node.Name, err)
	}
	return id, nil
}

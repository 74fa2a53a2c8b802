package taxonomy

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "taxonomy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndListNodes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateNode(ctx, &Node{
		Type:        TypeSymptom,
		Name:        "Calculation error",
		Description: "Wrong values in computed fields",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = store.CreateNode(ctx, &Node{Type: TypeSymptom, Name: "Access denied"})
	require.NoError(t, err)

	nodes, err := store.ListNodes(ctx, TypeSymptom)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Access denied", nodes[0].Name)
	assert.Equal(t, "Calculation error", nodes[1].Name)
	assert.True(t, nodes[0].Active)
}

func TestListNodesFiltersByType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateNode(ctx, &Node{Type: TypeSymptom, Name: "A"})
	require.NoError(t, err)
	_, err = store.CreateNode(ctx, &Node{Type: TypeCause, Name: "B"})
	require.NoError(t, err)

	nodes, err := store.ListNodes(ctx, TypeCause)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "B", nodes[0].Name)
}

func TestNodeHierarchyAndMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rootID, err := store.CreateNode(ctx, &Node{Type: TypeResource, Name: "ERP"})
	require.NoError(t, err)

	childID, err := store.CreateNode(ctx, &Node{
		Type:     TypeResource,
		Name:     "Payroll",
		ParentID: &rootID,
		Metadata: map[string]any{"owner": "hr-team"},
	})
	require.NoError(t, err)

	nodes, err := store.ListNodes(ctx, TypeResource)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Parentless root sorts first.
	assert.Equal(t, "ERP", nodes[0].Name)
	assert.Nil(t, nodes[0].ParentID)

	require.NotNil(t, nodes[1].ParentID)
	assert.Equal(t, rootID, *nodes[1].ParentID)
	assert.Equal(t, childID, nodes[1].ID)
	assert.Equal(t, "hr-team", nodes[1].Metadata["owner"])
}

func TestUpdateNode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateNode(ctx, &Node{Type: TypeCause, Name: "Config"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateNode(ctx, &Node{
		ID:          id,
		Type:        TypeCause,
		Name:        "Configuration",
		Description: "renamed",
	}))

	nodes, err := store.ListNodes(ctx, TypeCause)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Configuration", nodes[0].Name)
	assert.Equal(t, "renamed", nodes[0].Description)

	err = store.UpdateNode(ctx, &Node{ID: 9999, Type: TypeCause, Name: "x"})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDeactivateNode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateNode(ctx, &Node{Type: TypeSolution, Name: "Reinstall"})
	require.NoError(t, err)

	require.NoError(t, store.DeactivateNode(ctx, id))

	nodes, err := store.ListNodes(ctx, TypeSolution)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	assert.ErrorIs(t, store.DeactivateNode(ctx, 9999), ErrNodeNotFound)
}

func TestCreateNodeValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateNode(ctx, &Node{Type: "", Name: "x"})
	assert.ErrorIs(t, err, ErrEmptyType)

	_, err = store.CreateNode(ctx, &Node{Type: TypeSymptom, Name: "  "})
	assert.ErrorIs(t, err, ErrEmptyName)
}

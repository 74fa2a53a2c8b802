package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore always errors, to exercise degradation to defaults.
type failingStore struct{}

func (failingStore) GetTemplate(ctx context.Context, key string) (*Record, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) UpsertTemplate(ctx context.Context, record *Record) error {
	return errors.New("connection refused")
}
func (failingStore) ListTemplates(ctx context.Context) ([]*Record, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Close() error { return nil }

func TestResolverDefaultsOnly(t *testing.T) {
	resolver := NewResolver(nil)
	ctx := context.Background()

	for _, key := range []string{KeyClassification, KeyGraphEnrichment, KeyVisionAnalysis, KeyTaxonomyMapping} {
		resolved, err := resolver.Resolve(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, key, resolved.Key)
		assert.Equal(t, SourceDefault, resolved.Source)
		assert.NotEmpty(t, resolved.Text)
	}
}

func TestResolverUnknownKey(t *testing.T) {
	resolver := NewResolver(nil)

	_, err := resolver.Resolve(context.Background(), "nonexistent_key")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestResolverEmptyKey(t *testing.T) {
	resolver := NewResolver(nil)

	_, err := resolver.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestResolverPrefersStore(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/prompts.db")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.UpsertTemplate(ctx, &Record{
		Key:  KeyClassification,
		Text: "custom classification instructions",
	}))

	resolver := NewResolver(store)

	resolved, err := resolver.Resolve(ctx, KeyClassification)
	require.NoError(t, err)
	assert.Equal(t, SourceStore, resolved.Source)
	assert.Equal(t, "custom classification instructions", resolved.Text)

	// Keys without a stored override still resolve to the default.
	resolved, err = resolver.Resolve(ctx, KeyVisionAnalysis)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, resolved.Source)
}

func TestResolverDegradesOnStoreFailure(t *testing.T) {
	resolver := NewResolver(failingStore{})

	resolved, err := resolver.Resolve(context.Background(), KeyTaxonomyMapping)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, resolved.Source)
}

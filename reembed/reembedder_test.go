package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ticketgraph/ai/mock"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
	"github.com/poiesic/ticketgraph/graph/badger"
)

func newTestRepo(t *testing.T) graph.TicketRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func seedRecords(t *testing.T, repo graph.TicketRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		record := &core.GraphTicketRecord{
			TicketID:      fmt.Sprintf("T-%03d", i),
			Title:         fmt.Sprintf("ticket %d", i),
			System:        "HR Suite",
			SymptomDetail: fmt.Sprintf("symptom text %d", i),
			SymptomVector: []float32{0.5, 0.5, 0.5},
		}
		require.NoError(t, repo.UpsertTicketRecords(context.Background(), record))
	}
}

func TestReembedder_Run(t *testing.T) {
	repo := newTestRepo(t)
	seedRecords(t, repo, 7)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{2, 0, 0} // not unit length on purpose
		}
		return vectors, nil
	}

	var out bytes.Buffer
	reembedder := NewReembedder(repo, embedder, &Config{
		BatchSize:      3,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &out)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, out.String(), "Starting reembedding of 7 records")
	assert.Contains(t, out.String(), "Reembedding complete")

	// Every stored vector was replaced and normalized.
	record, err := repo.GetTicketRecord(context.Background(), "T-004")
	require.NoError(t, err)
	require.Len(t, record.SymptomVector, 3)
	assert.InDelta(t, 1.0, float64(record.SymptomVector[0]), 1e-6)
	assert.InDelta(t, 0.0, float64(record.SymptomVector[1]), 1e-6)
}

func TestReembedder_EmptyGraph(t *testing.T) {
	repo := newTestRepo(t)

	var out bytes.Buffer
	reembedder := NewReembedder(repo, mock.NewMockEmbedder(), nil, &out)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, out.String(), "No ticket records found")
}

func TestReembedder_EmbeddingFailure(t *testing.T) {
	repo := newTestRepo(t)
	seedRecords(t, repo, 2)

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		return nil, errors.New("embedding service down")
	}

	var out bytes.Buffer
	reembedder := NewReembedder(repo, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &out)

	err := reembedder.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls, "should exhaust the retry budget")
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo := newTestRepo(t)
	processor := NewBatchProcessor(repo, mock.NewMockEmbedder(), 1, time.Millisecond)
	assert.NoError(t, processor.Process(context.Background(), nil))
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo := newTestRepo(t)
	seedRecords(t, repo, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	records := []*core.GraphTicketRecord{
		{TicketID: "T-000", SymptomDetail: "a"},
		{TicketID: "T-001", SymptomDetail: "b"},
	}
	err := processor.Process(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

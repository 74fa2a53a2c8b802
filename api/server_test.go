package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ticketgraph/ai/mock"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
	"github.com/poiesic/ticketgraph/graph/badger"
	"github.com/poiesic/ticketgraph/ingestion"
	"github.com/poiesic/ticketgraph/search"
	"github.com/poiesic/ticketgraph/taxonomy"
)

const testSystem = "HR Suite"

func newTestServer(t *testing.T, key string) (*Server, graph.TicketRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	taxStore, err := taxonomy.NewSQLiteStore(filepath.Join(t.TempDir(), "taxonomy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { taxStore.Close() })
	require.NoError(t, taxonomy.Seed(context.Background(), taxStore, testSystem))

	provider := mock.NewMockProvider()

	pipeline, err := ingestion.NewPipeline(repo, taxStore, nil, provider,
		ingestion.WithTargetSystem(testSystem), ingestion.WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	searcher, err := search.NewSearcher(repo, provider)
	require.NoError(t, err)

	return NewServer(pipeline, searcher, taxStore, repo, Config{Host: "127.0.0.1", Port: 0, Key: key}, nil), repo
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	t.Run("health needs no auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		req.Header.Set("Authorization", "Bearer secret")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIngestionStream(t *testing.T) {
	srv, repo := newTestServer(t, "")

	body := `{"tickets": [
		{"ticket_id": "T-1", "system": "HR Suite", "summary": "payroll fails",
		 "conversation": [{"role": "client", "text": "it aborts"},
		                  {"role": "agent", "text": "resolved by reindexing"}]},
		{"ticket_id": "T-2", "system": "CRM Plus", "summary": "off topic",
		 "conversation": [{"role": "client", "text": "not this product"}]}
	], "clear_store": false}`

	req := httptest.NewRequest("POST", "/api/ingestion", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	// Every line decodes independently and the last one is the final event.
	var events []core.ProgressEvent
	scanner := bufio.NewScanner(strings.NewReader(w.Body.String()))
	for scanner.Scan() {
		var ev core.ProgressEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev), "line: %s", scanner.Text())
		events = append(events, ev)
	}
	require.NotEmpty(t, events)

	final := events[len(events)-1]
	require.Equal(t, core.StepFinal, final.Step)
	require.NotNil(t, final.Stats)
	assert.Equal(t, 2, final.Stats.TotalReceived)
	assert.Equal(t, 1, final.Stats.FilteredByDomain)
	assert.Equal(t, 1, final.Stats.PersistedSuccessfully)
	assert.True(t, final.Stats.Partitioned())

	// The useful ticket actually landed in the graph.
	_, err := repo.GetTicketRecord(context.Background(), "T-1")
	assert.NoError(t, err)
}

func TestIngestionBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, "")

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/ingestion", strings.NewReader("{"))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty batch", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/ingestion", strings.NewReader(`{"tickets": []}`))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearchEndpoint(t *testing.T) {
	srv, repo := newTestServer(t, "")

	record := &core.GraphTicketRecord{
		TicketID:       "T-1",
		Title:          "payroll closing fails",
		System:         testSystem,
		SymptomDetail:  "the payroll run aborts",
		SolutionDetail: "reindex the ledger",
		SymptomVector:  mockVectorFor("the payroll run aborts"),
	}
	require.NoError(t, repo.UpsertTicketRecords(context.Background(), record))

	t.Run("missing query", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/search", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("identical text matches", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/search?q=the+payroll+run+aborts&limit=5", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var hits []searchHit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
		require.Len(t, hits, 1)
		assert.Equal(t, "T-1", hits[0].TicketID)
		assert.Equal(t, "payroll closing fails", hits[0].Title)
	})
}

// mockVectorFor mirrors the deterministic embedding of the mock provider so
// seeded records match queries with the same text.
func mockVectorFor(text string) []float32 {
	embedder := mock.NewMockEmbedder()
	vector, _ := embedder.EmbedText(context.Background(), text)
	return vector
}

func TestTaxonomyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	t.Run("known type", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/taxonomy/symptom", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var nodes []*taxonomy.Node
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
		require.NotEmpty(t, nodes)
		assert.Equal(t, core.FallbackCategory, nodes[0].Name)
	})

	t.Run("unknown type", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/taxonomy/bogus", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	srv, repo := newTestServer(t, "")

	record := &core.GraphTicketRecord{TicketID: "T-1", Title: "t", System: testSystem}
	require.NoError(t, repo.UpsertTicketRecords(context.Background(), record))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats graph.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Tickets)
}

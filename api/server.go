package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
	"github.com/poiesic/ticketgraph/ingestion"
	"github.com/poiesic/ticketgraph/search"
	"github.com/poiesic/ticketgraph/taxonomy"
)

// validTaxonomyTypes guards the listing endpoint against arbitrary input.
var validTaxonomyTypes = map[string]bool{
	taxonomy.TypeSymptom:  true,
	taxonomy.TypeCause:    true,
	taxonomy.TypeSolution: true,
	taxonomy.TypeResource: true,
	taxonomy.TypeError:    true,
	taxonomy.TypeEvent:    true,
}

// Config holds API server configuration.
type Config struct {
	Host string
	Port int
	Key  string // API key for Bearer auth
}

// Server exposes the knowledge base over HTTP: streaming ingestion,
// semantic search, read-only taxonomy listing and graph statistics.
type Server struct {
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	taxonomy taxonomy.Store
	tickets  graph.TicketRepository
	cfg      Config
	logger   *slog.Logger
	srv      *http.Server
}

// NewServer creates a new API server.
func NewServer(pipeline *ingestion.Pipeline, searcher *search.Searcher, taxonomyStore taxonomy.Store, tickets graph.TicketRepository, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pipeline: pipeline,
		searcher: searcher,
		taxonomy: taxonomyStore,
		tickets:  tickets,
		cfg:      cfg,
		logger:   logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/ingestion", s.requireAuth(s.handleIngestion))
	mux.HandleFunc("GET /api/search", s.requireAuth(s.handleSearch))
	mux.HandleFunc("GET /api/taxonomy/{type}", s.requireAuth(s.handleListTaxonomy))
	mux.HandleFunc("GET /api/stats", s.requireAuth(s.handleStats))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("api server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// --- Middleware ---

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Key == "" {
			next(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.cfg.Key {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ingestionRequest struct {
	Tickets    []*core.RawTicket `json:"tickets"`
	ClearStore bool              `json:"clear_store"`
}

// handleIngestion runs the pipeline and streams one JSON event per line.
// Response buffering is disabled so lines arrive as they are produced.
func (s *Server) handleIngestion(w http.ResponseWriter, r *http.Request) {
	var req ingestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Tickets) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tickets are required"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	sink := ingestion.EventSinkFunc(func(event core.ProgressEvent) error {
		if err := encoder.Encode(event); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if _, err := s.pipeline.Run(r.Context(), req.Tickets, req.ClearStore, sink); err != nil {
		// The fatal event is already on the wire; nothing more can be sent.
		s.logger.Error("ingestion run failed", "err", err)
	}
}

type searchHit struct {
	TicketID string  `json:"ticket_id"`
	Title    string  `json:"title"`
	Symptom  string  `json:"symptom"`
	Solution string  `json:"solution"`
	Score    float32 `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	matches, err := s.searcher.FindSimilar(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	hits := make([]searchHit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, searchHit{
			TicketID: match.Record.TicketID,
			Title:    match.Record.Title,
			Symptom:  match.Record.SymptomDetail,
			Solution: match.Record.SolutionDetail,
			Score:    match.Score,
		})
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) handleListTaxonomy(w http.ResponseWriter, r *http.Request) {
	nodeType := r.PathValue("type")
	if !validTaxonomyTypes[nodeType] {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown taxonomy type"})
		return
	}

	nodes, err := s.taxonomy.ListNodes(r.Context(), nodeType)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if nodes == nil {
		nodes = []*taxonomy.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tickets.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package badger

import (
	"context"
	"testing"

	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
)

func testRecord(ticketID string) *core.GraphTicketRecord {
	return &core.GraphTicketRecord{
		TicketID:         ticketID,
		Protocol:         "P-" + ticketID,
		Title:            "Payroll calculation wrong",
		System:           "ERP",
		Module:           "Payroll",
		Functionality:    "Calculation",
		SymptomCategory:  "Calculation error",
		SymptomDetail:    "Net salary computed with stale parameters",
		CauseCategory:    "Missing configuration",
		CauseDetail:      "Parameter table not updated",
		SolutionCategory: "Parameter adjustment",
		SolutionDetail:   "Open settings and refresh the parameter table",
		SymptomVector:    []float32{1, 0, 0},
		ErrorCodes:       []string{"ORA-600"},
		EventCodes:       []string{"S-1200"},
		Tags:             []string{"payroll"},
	}
}

func TestUpsertAndGetTicketRecord(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1")); err != nil {
		t.Fatalf("Failed to upsert record: %v", err)
	}

	got, err := repo.GetTicketRecord(ctx, "t-1")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if got.Title != "Payroll calculation wrong" {
		t.Fatalf("Unexpected title: %s", got.Title)
	}
	if got.IngestedAt.IsZero() {
		t.Fatal("Expected IngestedAt to be set")
	}

	if _, err := repo.GetTicketRecord(ctx, "missing"); err != graph.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpsertIsIdempotentForSharedNodes(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	// Two tickets sharing every category and entity.
	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1"), testRecord("t-2")); err != nil {
		t.Fatalf("Failed to upsert records: %v", err)
	}
	// Re-ingest the first one.
	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1")); err != nil {
		t.Fatalf("Failed to re-upsert record: %v", err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Tickets != 2 {
		t.Fatalf("Expected 2 tickets, got %d", stats.Tickets)
	}
	// symptom + cause + solution categories
	if stats.Categories != 3 {
		t.Fatalf("Expected 3 category nodes, got %d", stats.Categories)
	}
	// system + module + functionality
	if stats.Resources != 3 {
		t.Fatalf("Expected 3 resource nodes, got %d", stats.Resources)
	}
	// error + event + tag
	if stats.Entities != 3 {
		t.Fatalf("Expected 3 entity nodes, got %d", stats.Entities)
	}
}

func TestUpsertReplacesRecordAndLinks(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1")); err != nil {
		t.Fatalf("Failed to upsert record: %v", err)
	}

	updated := testRecord("t-1")
	updated.SymptomCategory = "Access denied"
	updated.ErrorCodes = nil
	if err := repo.UpsertTicketRecords(ctx, updated); err != nil {
		t.Fatalf("Failed to re-upsert record: %v", err)
	}

	got, err := repo.GetTicketRecord(ctx, "t-1")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if got.SymptomCategory != "Access denied" {
		t.Fatalf("Expected updated category, got %s", got.SymptomCategory)
	}
	if len(got.ErrorCodes) != 0 {
		t.Fatalf("Expected no error codes, got %v", got.ErrorCodes)
	}

	ids, err := repo.ListExistingIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list IDs: %v", err)
	}
	if len(ids) != 1 || !ids["t-1"] {
		t.Fatalf("Expected exactly t-1, got %v", ids)
	}
}

func TestListExistingIDs(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	ids, err := repo.ListExistingIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list IDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("Expected empty set, got %v", ids)
	}

	if err := repo.UpsertTicketRecords(ctx, testRecord("a"), testRecord("b")); err != nil {
		t.Fatalf("Failed to upsert records: %v", err)
	}

	ids, err = repo.ListExistingIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list IDs: %v", err)
	}
	if !ids["a"] || !ids["b"] || len(ids) != 2 {
		t.Fatalf("Unexpected ID set: %v", ids)
	}
}

func TestFindSimilarSymptoms(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	near := testRecord("close")
	near.SymptomVector = []float32{1, 0, 0}
	far := testRecord("far")
	far.SymptomVector = []float32{0, 1, 0}
	unembedded := testRecord("unembedded")
	unembedded.SymptomVector = nil

	if err := repo.UpsertTicketRecords(ctx, near, far, unembedded); err != nil {
		t.Fatalf("Failed to upsert records: %v", err)
	}

	matches, err := repo.FindSimilarSymptoms(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Record.TicketID != "close" {
		t.Fatalf("Expected 'close', got %s", matches[0].Record.TicketID)
	}
	if matches[0].Score < 0.99 {
		t.Fatalf("Expected score near 1, got %f", matches[0].Score)
	}

	if _, err := repo.FindSimilarSymptoms(ctx, []float32{1, 0, 0}, 0, 0); err != graph.ErrInvalidQuery {
		t.Fatalf("Expected ErrInvalidQuery, got %v", err)
	}
}

func TestUpdateSymptomVector(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1")); err != nil {
		t.Fatalf("Failed to upsert record: %v", err)
	}

	if err := repo.UpdateSymptomVector(ctx, "t-1", []float32{0, 0, 1}); err != nil {
		t.Fatalf("Failed to update vector: %v", err)
	}

	got, err := repo.GetTicketRecord(ctx, "t-1")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if got.SymptomVector[2] != 1 {
		t.Fatalf("Unexpected vector: %v", got.SymptomVector)
	}

	if err := repo.UpdateSymptomVector(ctx, "missing", []float32{1}); err != graph.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestWipeAll(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := repo.UpsertTicketRecords(ctx, testRecord("t-1")); err != nil {
		t.Fatalf("Failed to upsert record: %v", err)
	}

	if err := repo.WipeAll(ctx); err != nil {
		t.Fatalf("Failed to wipe: %v", err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Tickets != 0 || stats.Categories != 0 || stats.Resources != 0 || stats.Entities != 0 {
		t.Fatalf("Expected empty graph, got %+v", stats)
	}
}

func TestIterateTicketRecords(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := repo.UpsertTicketRecords(ctx, testRecord("a"), testRecord("b")); err != nil {
		t.Fatalf("Failed to upsert records: %v", err)
	}

	seen := map[string]bool{}
	err = repo.IterateTicketRecords(ctx, func(record *core.GraphTicketRecord) error {
		seen[record.TicketID] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to iterate: %v", err)
	}
	if !seen["a"] || !seen["b"] || len(seen) != 2 {
		t.Fatalf("Unexpected records seen: %v", seen)
	}
}

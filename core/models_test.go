package core

import (
	"testing"
)

func TestNewClassificationVerdict(t *testing.T) {
	tests := []struct {
		name     string
		class    Classification
		symptom  string
		solution string
		want     Classification
	}{
		{
			name:     "useful with symptom and solution",
			class:    ClassificationUseful,
			symptom:  "payroll calculation fails",
			solution: "rebuild the calculation index",
			want:     ClassificationUseful,
		},
		{
			name:     "useful without symptom is downgraded",
			class:    ClassificationUseful,
			symptom:  "",
			solution: "rebuild the calculation index",
			want:     ClassificationUseless,
		},
		{
			name:     "useful without solution is downgraded",
			class:    ClassificationUseful,
			symptom:  "payroll calculation fails",
			solution: "",
			want:     ClassificationUseless,
		},
		{
			name:     "useful with whitespace-only solution is downgraded",
			class:    ClassificationUseful,
			symptom:  "payroll calculation fails",
			solution: "   ",
			want:     ClassificationUseless,
		},
		{
			name:     "useless stays useless",
			class:    ClassificationUseless,
			symptom:  "",
			solution: "",
			want:     ClassificationUseless,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewClassificationVerdict(tt.class, "reasoning", tt.symptom, "", tt.solution, nil)
			if v.Classification != tt.want {
				t.Errorf("Classification = %v, want %v", v.Classification, tt.want)
			}
		})
	}
}

func TestNewClassificationVerdict_DowngradeAnnotatesReasoning(t *testing.T) {
	v := NewClassificationVerdict(ClassificationUseful, "looked good", "", "", "do the thing", nil)
	if v.Classification != ClassificationUseless {
		t.Fatalf("expected downgrade to useless, got %v", v.Classification)
	}
	if v.Reasoning == "looked good" {
		t.Error("expected reasoning to be annotated on downgrade")
	}
}

func TestRawTicket_Clone(t *testing.T) {
	original := &RawTicket{
		ID:     "t-1",
		System: "Persona SQL",
		Conversation: []ConversationMessage{
			{Role: "user", Text: "hello", Images: []string{"http://img/1.png"}},
		},
	}

	clone := original.Clone()
	clone.Conversation[0].Text = "changed"
	clone.Conversation[0].Images[0] = "http://img/other.png"

	if original.Conversation[0].Text != "hello" {
		t.Error("Clone() shares message slice with original")
	}
	if original.Conversation[0].Images[0] != "http://img/1.png" {
		t.Error("Clone() shares image slice with original")
	}
}

func TestRawTicket_ImageRefs(t *testing.T) {
	ticket := &RawTicket{
		Conversation: []ConversationMessage{
			{Text: "a", Images: []string{"i1", "i2"}},
			{Text: "b"},
			{Text: "c", Images: []string{"i3"}},
		},
	}

	refs := ticket.ImageRefs()
	if len(refs) != 3 {
		t.Fatalf("ImageRefs() returned %d refs, want 3", len(refs))
	}
	if refs[0] != "i1" || refs[2] != "i3" {
		t.Errorf("ImageRefs() order wrong: %v", refs)
	}
}

func TestEnrichmentResult_DetailTexts(t *testing.T) {
	e := &EnrichmentResult{
		Symptom: SymptomAnalysis{
			UserDescription:      "the button is gray",
			TechnicalDescription: "event S-1200 rejected by validation routine",
		},
		Solution: AtomicSolution{
			RootCause: "stale registry entry",
			Steps:     []string{"Open the event monitor", "Reprocess the event"},
		},
	}

	symptom := e.SymptomDetailText()
	if symptom != "the button is gray\n\n[Technical analysis]: event S-1200 rejected by validation routine" {
		t.Errorf("SymptomDetailText() = %q", symptom)
	}
	if e.CauseDetailText() != "stale registry entry" {
		t.Errorf("CauseDetailText() = %q", e.CauseDetailText())
	}
	if e.SolutionDetailText() != "Open the event monitor\nReprocess the event" {
		t.Errorf("SolutionDetailText() = %q", e.SolutionDetailText())
	}
}

func TestEnrichmentResult_DetailTextFallbacks(t *testing.T) {
	e := &EnrichmentResult{}

	if e.SymptomDetailText() != "No details." {
		t.Errorf("SymptomDetailText() = %q", e.SymptomDetailText())
	}
	if e.CauseDetailText() != "Cause not identified." {
		t.Errorf("CauseDetailText() = %q", e.CauseDetailText())
	}
	if e.SolutionDetailText() != "Solution not structured." {
		t.Errorf("SolutionDetailText() = %q", e.SolutionDetailText())
	}
}

func TestCategoryNode_ContentID(t *testing.T) {
	a := CategoryNode{Kind: CategorySymptom, Name: "Calculation Error"}
	b := CategoryNode{Kind: CategorySymptom, Name: "Calculation Error"}
	c := CategoryNode{Kind: CategoryCause, Name: "Calculation Error"}

	if a.ContentID() != b.ContentID() {
		t.Error("same kind and name should produce the same node ID")
	}
	if a.ContentID() == c.ContentID() {
		t.Error("different kinds should produce different node IDs")
	}
}

func TestIngestionStats_Partitioned(t *testing.T) {
	stats := &IngestionStats{
		TotalReceived:         5,
		FilteredByDomain:      1,
		AlreadyExisted:        1,
		ClassifiedUseful:      2,
		ClassifiedUseless:     1,
		ProcessingErrors:      1,
		PersistedSuccessfully: 1,
	}
	if !stats.Partitioned() {
		t.Error("expected stats to be partitioned")
	}
	if !stats.Consistent() {
		t.Error("expected stats to be consistent")
	}

	stats.PersistedSuccessfully = 3
	if stats.Consistent() {
		t.Error("persisted above useful must not be consistent")
	}
}

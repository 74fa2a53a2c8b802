package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for shared graph nodes (categories, resources,
// technical entities). It is generated using content-based hashing so the
// same name always maps to the same node.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ConversationMessage is a single message inside a support ticket's history.
// Image references are opaque URLs resolved by the vision collaborator.
type ConversationMessage struct {
	Role   string   `json:"role"`
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// RawTicket is the immutable input unit of the ingestion pipeline.
// The identifier is stable across re-ingestions and drives deduplication.
type RawTicket struct {
	ID           string                `json:"ticket_id"`
	Protocol     string                `json:"protocol,omitempty"`
	System       string                `json:"system"`
	Summary      string                `json:"summary"`
	Occurrences  string                `json:"occurrences,omitempty"`
	Conversation []ConversationMessage `json:"conversation"`
}

// Clone returns a deep copy of the ticket. Pipeline stages that annotate
// message text work on a copy and never mutate the caller's batch.
func (t *RawTicket) Clone() *RawTicket {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Conversation = make([]ConversationMessage, len(t.Conversation))
	for i, msg := range t.Conversation {
		clone.Conversation[i] = msg
		clone.Conversation[i].Images = append([]string(nil), msg.Images...)
	}
	return &clone
}

// ImageRefs collects all image references found across the ticket's messages,
// in message order.
func (t *RawTicket) ImageRefs() []string {
	var refs []string
	for _, msg := range t.Conversation {
		refs = append(refs, msg.Images...)
	}
	return refs
}

// Classification is the verdict on whether a ticket carries a complete,
// reusable technical resolution.
type Classification string

const (
	// ClassificationUseful marks tickets with a definitive technical solution.
	ClassificationUseful Classification = "UTIL"
	// ClassificationUseless marks tickets without reusable knowledge.
	ClassificationUseless Classification = "INUTIL"
)

// ClassificationVerdict is the structured output of the classification
// collaborator. Construct it with NewClassificationVerdict: a useful verdict
// without both a symptom and a solution is downgraded to useless at
// construction time, never left unchecked.
type ClassificationVerdict struct {
	Classification Classification `json:"classification"`
	Reasoning      string         `json:"reasoning"`
	Symptom        string         `json:"symptom,omitempty"`
	Cause          string         `json:"cause,omitempty"`
	Solution       string         `json:"solution,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

// NewClassificationVerdict builds a verdict and enforces the consistency
// invariant: UTIL requires a non-empty symptom and solution. Inconsistent
// verdicts are downgraded to INUTIL and the reasoning is annotated.
func NewClassificationVerdict(classification Classification, reasoning, symptom, cause, solution string, tags []string) *ClassificationVerdict {
	v := &ClassificationVerdict{
		Classification: classification,
		Reasoning:      reasoning,
		Symptom:        strings.TrimSpace(symptom),
		Cause:          strings.TrimSpace(cause),
		Solution:       strings.TrimSpace(solution),
		Tags:           tags,
	}
	if v.Classification == ClassificationUseful && (v.Symptom == "" || v.Solution == "") {
		v.Classification = ClassificationUseless
		v.Reasoning += " [reclassified: missing symptom or solution]"
	}
	return v
}

// Useful reports whether the verdict approved the ticket for enrichment.
func (v *ClassificationVerdict) Useful() bool {
	return v.Classification == ClassificationUseful
}

// SymptomAnalysis is the symptom portion of an enrichment result.
type SymptomAnalysis struct {
	UserDescription      string   `json:"user_description"`
	TechnicalDescription string   `json:"technical_description"`
	ErrorCodes           []string `json:"error_codes,omitempty"`
}

// GraphEntities lists the structured entities referenced by a ticket.
type GraphEntities struct {
	Modules    []string `json:"modules,omitempty"`
	EventCodes []string `json:"event_codes,omitempty"`
	Screens    []string `json:"screens,omitempty"`
}

// AtomicSolution is a short root-cause label plus the ordered resolution steps.
type AtomicSolution struct {
	RootCause string   `json:"root_cause"`
	Steps     []string `json:"ordered_steps,omitempty"`
}

// EnrichmentResult is the richer structured record produced by the graph
// enrichment collaborator for tickets classified as useful.
type EnrichmentResult struct {
	Symptom  SymptomAnalysis `json:"symptom_analysis"`
	Entities GraphEntities   `json:"graph_entities"`
	Solution AtomicSolution  `json:"atomic_solution"`
}

// SymptomDetailText combines the user-facing and technical symptom
// descriptions into the text that is embedded for semantic retrieval.
func (e *EnrichmentResult) SymptomDetailText() string {
	text := strings.TrimSpace(e.Symptom.UserDescription)
	if tech := strings.TrimSpace(e.Symptom.TechnicalDescription); tech != "" {
		if text != "" {
			text += "\n\n"
		}
		text += "[Technical analysis]: " + tech
	}
	if text == "" {
		text = "No details."
	}
	return text
}

// CauseDetailText returns the cause description persisted on the cause
// detail node.
func (e *EnrichmentResult) CauseDetailText() string {
	if cause := strings.TrimSpace(e.Solution.RootCause); cause != "" {
		return cause
	}
	return "Cause not identified."
}

// SolutionDetailText joins the ordered solution steps into the text persisted
// on the solution detail node.
func (e *EnrichmentResult) SolutionDetailText() string {
	if len(e.Solution.Steps) == 0 {
		return "Solution not structured."
	}
	return strings.Join(e.Solution.Steps, "\n")
}

// TaxonomyMapping is the validated projection of an enrichment result onto
// the closed vocabularies of the taxonomy store. Every value belongs to the
// vocabulary snapshot fetched at batch start.
type TaxonomyMapping struct {
	Module           string   `json:"module"`
	Functionality    string   `json:"functionality"`
	SymptomCategory  string   `json:"symptom_category"`
	CauseCategory    string   `json:"cause_category"`
	SolutionCategory string   `json:"solution_category"`
	ErrorCodes       []string `json:"error_codes,omitempty"`
	EventCodes       []string `json:"event_codes,omitempty"`
}

// Vocabulary is the snapshot of valid category names fetched once per batch
// from the taxonomy store.
type Vocabulary struct {
	Symptoms        []string
	Causes          []string
	Solutions       []string
	Modules         []string // resource level 2
	Functionalities []string // resource level 3
	ErrorCodes      []string
	EventCodes      []string
}

// FallbackCategory is the generic catch-all entry single-value mapping fields
// degrade to when the mapped value is outside the vocabulary.
const FallbackCategory = "Other"

// GraphTicketRecord is the persisted shape of one ingested ticket: the ticket
// node, its three category/detail pairs, the resource hierarchy chain, and
// the linked technical entities. Only the symptom detail carries the
// embedding vector.
type GraphTicketRecord struct {
	TicketID string
	Protocol string
	Title    string

	// Resource hierarchy, most generic to most specific.
	System        string
	Module        string
	Functionality string

	SymptomCategory  string
	SymptomDetail    string
	CauseCategory    string
	CauseDetail      string
	SolutionCategory string
	SolutionDetail   string

	SymptomVector []float32

	ErrorCodes []string
	EventCodes []string
	Tags       []string

	IngestedAt time.Time
}

// BuildTicketRecord assembles the persisted record from the pipeline stage
// outputs. The vector embeds the symptom detail text.
func BuildTicketRecord(t *RawTicket, verdict *ClassificationVerdict, enrichment *EnrichmentResult, mapping *TaxonomyMapping, vector []float32) *GraphTicketRecord {
	return &GraphTicketRecord{
		TicketID:         t.ID,
		Protocol:         t.Protocol,
		Title:            t.Summary,
		System:           t.System,
		Module:           mapping.Module,
		Functionality:    mapping.Functionality,
		SymptomCategory:  mapping.SymptomCategory,
		SymptomDetail:    enrichment.SymptomDetailText(),
		CauseCategory:    mapping.CauseCategory,
		CauseDetail:      enrichment.CauseDetailText(),
		SolutionCategory: mapping.SolutionCategory,
		SolutionDetail:   enrichment.SolutionDetailText(),
		SymptomVector:    vector,
		ErrorCodes:       mapping.ErrorCodes,
		EventCodes:       mapping.EventCodes,
		Tags:             verdict.Tags,
	}
}

// TicketMatch is a symptom-similarity search hit.
type TicketMatch struct {
	Record *GraphTicketRecord
	Score  float32
}

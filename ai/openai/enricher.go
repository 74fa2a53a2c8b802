// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Enricher implements ai.GraphEnricher using OpenAI-compatible chat APIs.
// It uses the enricher model, which is expected to be stronger than the
// classification model.
type Enricher struct {
	client llms.Model
	logger *slog.Logger
}

// newEnricher is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEnricher(config *ai.Config) (*Enricher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.EnricherModel),
	)
	if err != nil {
		return nil, err
	}

	return &Enricher{
		client: client,
		logger: slog.Default().With("component", "openai-enricher"),
	}, nil
}

// NewEnricher creates a new graph enricher using the provided configuration.
//
// Returns ai.GraphEnricher interface to enforce abstraction.
func NewEnricher(config *ai.Config) (ai.GraphEnricher, error) {
	return newEnricher(config)
}

// Enrich extracts structured entities from a ticket already classified as
// useful. The classification verdict is included in the user prompt so the
// model refines the existing knowledge instead of starting from scratch.
func (e *Enricher) Enrich(ctx context.Context, ticket *core.RawTicket, verdict *core.ClassificationVerdict, instruction string) (*core.EnrichmentResult, error) {
	var b strings.Builder
	b.WriteString(renderTicket(ticket))
	b.WriteString("\nKnowledge extracted so far:\n")
	fmt.Fprintf(&b, "Detected symptom: %s\n", verdict.Symptom)
	fmt.Fprintf(&b, "Detected cause: %s\n", verdict.Cause)
	fmt.Fprintf(&b, "Suggested solution: %s\n", verdict.Solution)

	var result core.EnrichmentResult
	if err := completeJSON(ctx, e.client, e.logger, instruction, b.String(), &result); err != nil {
		return nil, err
	}

	e.logger.Debug("enriched ticket",
		"ticket_id", ticket.ID,
		"error_codes", len(result.Symptom.ErrorCodes),
		"modules", len(result.Entities.Modules),
		"steps", len(result.Solution.Steps))

	return &result, nil
}

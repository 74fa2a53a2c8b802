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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Mapper implements ai.TaxonomyMapper using OpenAI-compatible chat APIs.
type Mapper struct {
	client llms.Model
	logger *slog.Logger
}

// newMapper is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newMapper(config *ai.Config) (*Mapper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &Mapper{
		client: client,
		logger: slog.Default().With("component", "openai-mapper"),
	}, nil
}

// NewMapper creates a new taxonomy mapper using the provided configuration.
//
// Returns ai.TaxonomyMapper interface to enforce abstraction.
func NewMapper(config *ai.Config) (ai.TaxonomyMapper, error) {
	return newMapper(config)
}

// MapTaxonomy projects an enrichment result onto the closed vocabulary. The
// valid lists are embedded in the user prompt; the model is instructed to
// pick only from them. Callers still re-validate the result with
// core.NormalizeMapping before persisting.
func (m *Mapper) MapTaxonomy(ctx context.Context, enrichment *core.EnrichmentResult, vocab *core.Vocabulary, instruction string) (*core.TaxonomyMapping, error) {
	var b strings.Builder
	b.WriteString("Extracted data (use this to decide):\n")
	fmt.Fprintf(&b, "- Technical description: %s\n", enrichment.Symptom.TechnicalDescription)
	fmt.Fprintf(&b, "- Error codes mentioned: %s\n", jsonList(enrichment.Symptom.ErrorCodes))
	fmt.Fprintf(&b, "- Root cause: %s\n", enrichment.Solution.RootCause)
	fmt.Fprintf(&b, "- Solution steps: %s\n", jsonList(enrichment.Solution.Steps))
	fmt.Fprintf(&b, "- Modules/Screens: %s / %s\n", jsonList(enrichment.Entities.Modules), jsonList(enrichment.Entities.Screens))

	b.WriteString("\nYour task: for every field, choose the single best match from the valid lists below.\n")
	b.WriteString("If there is no exact match, choose the most generic option available.\n")
	b.WriteString("\n--- VALID LISTS ---\n")
	fmt.Fprintf(&b, "[symptom_category]: %s\n", jsonList(vocab.Symptoms))
	fmt.Fprintf(&b, "[cause_category]: %s\n", jsonList(vocab.Causes))
	fmt.Fprintf(&b, "[solution_category]: %s\n", jsonList(vocab.Solutions))
	fmt.Fprintf(&b, "[module]: %s\n", jsonList(vocab.Modules))
	fmt.Fprintf(&b, "[functionality]: %s\n", jsonList(vocab.Functionalities))
	fmt.Fprintf(&b, "[error_codes]: %s\n", jsonList(vocab.ErrorCodes))
	fmt.Fprintf(&b, "[event_codes]: %s\n", jsonList(vocab.EventCodes))

	var mapping core.TaxonomyMapping
	if err := completeJSON(ctx, m.client, m.logger, instruction, b.String(), &mapping); err != nil {
		return nil, err
	}

	m.logger.Debug("mapped taxonomy",
		"module", mapping.Module,
		"symptom_category", mapping.SymptomCategory)

	return &mapping, nil
}

// jsonList renders a string slice as a compact JSON array for prompt text.
func jsonList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

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
	"log/slog"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Classifier implements ai.TicketClassifier using OpenAI-compatible chat APIs.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// verdictResponse is the JSON shape the classification model is instructed
// to return.
type verdictResponse struct {
	Classification string   `json:"classification"`
	Reasoning      string   `json:"reasoning"`
	Symptom        string   `json:"symptom"`
	Cause          string   `json:"cause"`
	Solution       string   `json:"solution"`
	Tags           []string `json:"tags"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
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

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new ticket classifier using the provided
// configuration.
//
// Returns ai.TicketClassifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.TicketClassifier, error) {
	return newClassifier(config)
}

// Classify analyzes a ticket against the supplied instruction template and
// returns a structured verdict. The verdict is built through
// core.NewClassificationVerdict, so the UTIL consistency invariant holds
// regardless of what the model returned.
func (c *Classifier) Classify(ctx context.Context, ticket *core.RawTicket, instruction string) (*core.ClassificationVerdict, error) {
	var resp verdictResponse
	if err := completeJSON(ctx, c.client, c.logger, instruction, renderTicket(ticket), &resp); err != nil {
		return nil, err
	}

	verdict := core.NewClassificationVerdict(
		core.Classification(resp.Classification),
		resp.Reasoning,
		resp.Symptom,
		resp.Cause,
		resp.Solution,
		resp.Tags,
	)

	c.logger.Debug("classified ticket",
		"ticket_id", ticket.ID,
		"classification", verdict.Classification)

	return verdict, nil
}

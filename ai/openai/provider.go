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
	"log/slog"

	"github.com/poiesic/ticketgraph/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages one instance of each pipeline collaborator.
type Provider struct {
	config     *ai.Config
	analyzer   *ImageAnalyzer
	classifier *Classifier
	enricher   *Enricher
	mapper     *Mapper
	embedder   *Embedder
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	analyzer, err := newImageAnalyzer(config)
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(config)
	if err != nil {
		return nil, err
	}

	enricher, err := newEnricher(config)
	if err != nil {
		return nil, err
	}

	mapper, err := newMapper(config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		analyzer:   analyzer,
		classifier: classifier,
		enricher:   enricher,
		mapper:     mapper,
		embedder:   embedder,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// ImageAnalyzer returns the vision analysis service.
func (p *Provider) ImageAnalyzer() ai.ImageAnalyzer {
	return p.analyzer
}

// Classifier returns the ticket classification service.
func (p *Provider) Classifier() ai.TicketClassifier {
	return p.classifier
}

// Enricher returns the graph enrichment service.
func (p *Provider) Enricher() ai.GraphEnricher {
	return p.enricher
}

// Mapper returns the taxonomy mapping service.
func (p *Provider) Mapper() ai.TaxonomyMapper {
	return p.mapper
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

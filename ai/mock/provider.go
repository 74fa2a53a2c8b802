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


package mock

import "github.com/poiesic/ticketgraph/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock instances of the five pipeline collaborators.
type MockProvider struct {
	analyzer   *MockImageAnalyzer
	classifier *MockClassifier
	enricher   *MockEnricher
	mapper     *MockMapper
	embedder   *MockEmbedder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production
// constructors. Use the GetMock* accessors to reach concrete types for test
// assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		analyzer:   NewMockImageAnalyzer(),
		classifier: NewMockClassifier(),
		enricher:   NewMockEnricher(),
		mapper:     NewMockMapper(),
		embedder:   NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewMockProviderWithServices(analyzer *MockImageAnalyzer, classifier *MockClassifier, enricher *MockEnricher, mapper *MockMapper, embedder *MockEmbedder) ai.AIProvider {
	return &MockProvider{
		analyzer:   analyzer,
		classifier: classifier,
		enricher:   enricher,
		mapper:     mapper,
		embedder:   embedder,
	}
}

// ImageAnalyzer returns the mock image analyzer.
func (p *MockProvider) ImageAnalyzer() ai.ImageAnalyzer {
	return p.analyzer
}

// Classifier returns the mock classifier.
func (p *MockProvider) Classifier() ai.TicketClassifier {
	return p.classifier
}

// Enricher returns the mock enricher.
func (p *MockProvider) Enricher() ai.GraphEnricher {
	return p.enricher
}

// Mapper returns the mock mapper.
func (p *MockProvider) Mapper() ai.TaxonomyMapper {
	return p.mapper
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockImageAnalyzer returns the underlying mock analyzer for test assertions.
func (p *MockProvider) GetMockImageAnalyzer() *MockImageAnalyzer {
	return p.analyzer
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}

// GetMockEnricher returns the underlying mock enricher for test assertions.
func (p *MockProvider) GetMockEnricher() *MockEnricher {
	return p.enricher
}

// GetMockMapper returns the underlying mock mapper for test assertions.
func (p *MockProvider) GetMockMapper() *MockMapper {
	return p.mapper
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

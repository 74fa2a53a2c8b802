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


package ticketgraph

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/ai/openai"
	"github.com/poiesic/ticketgraph/graph"
	"github.com/poiesic/ticketgraph/graph/badger"
	"github.com/poiesic/ticketgraph/ingestion"
	"github.com/poiesic/ticketgraph/prompt"
	"github.com/poiesic/ticketgraph/search"
	"github.com/poiesic/ticketgraph/taxonomy"
)

// KnowledgeBase bundles the stores and collaborators of one ticket knowledge
// base under a single data directory: the badger-backed graph, the SQLite
// taxonomy and prompt stores, and the AI provider.
type KnowledgeBase struct {
	backend  *badger.Backend
	tickets  graph.TicketRepository
	taxonomy taxonomy.Store
	prompts  prompt.Store
	resolver *prompt.Resolver
	provider ai.AIProvider
	logger   *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI collaborator configuration.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// Open opens (or creates) a knowledge base under dataDir. The graph lives in
// dataDir/graph, the taxonomy in dataDir/taxonomy.db and the prompt store in
// dataDir/prompts.db.
func Open(dataDir string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Badger creates its own subdirectory, but the SQLite stores need the
	// parent to exist.
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, "graph"), false)
	if err != nil {
		return nil, err
	}

	tickets := badger.NewTicketRepository(backend)

	taxonomyStore, err := taxonomy.NewSQLiteStore(filepath.Join(dataDir, "taxonomy.db"))
	if err != nil {
		backend.Close()
		return nil, err
	}

	promptStore, err := prompt.NewSQLiteStore(filepath.Join(dataDir, "prompts.db"))
	if err != nil {
		taxonomyStore.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		promptStore.Close()
		taxonomyStore.Close()
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		backend:  backend,
		tickets:  tickets,
		taxonomy: taxonomyStore,
		prompts:  promptStore,
		resolver: prompt.NewResolver(promptStore),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases every store and the AI provider.
func (kb *KnowledgeBase) Close() error {
	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
	}

	if err := kb.prompts.Close(); err != nil {
		kb.logger.Error("error closing prompt store", "err", err)
		return err
	}
	if err := kb.taxonomy.Close(); err != nil {
		kb.logger.Error("error closing taxonomy store", "err", err)
		return err
	}
	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing graph backend", "err", err)
		return err
	}
	return nil
}

// TicketRepository returns the graph-backed ticket repository.
func (kb *KnowledgeBase) TicketRepository() graph.TicketRepository {
	return kb.tickets
}

// TaxonomyStore returns the taxonomy store.
func (kb *KnowledgeBase) TaxonomyStore() taxonomy.Store {
	return kb.taxonomy
}

// PromptResolver returns the instruction template resolver.
func (kb *KnowledgeBase) PromptResolver() *prompt.Resolver {
	return kb.resolver
}

// Provider returns the AI collaborator provider.
func (kb *KnowledgeBase) Provider() ai.AIProvider {
	return kb.provider
}

// NewIngestionPipeline builds an ingestion pipeline over this knowledge base.
func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(kb.tickets, kb.taxonomy, kb.resolver, kb.provider, opts...)
}

// NewSearcher builds a semantic searcher over this knowledge base.
func (kb *KnowledgeBase) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(kb.tickets, kb.provider, opts...)
}

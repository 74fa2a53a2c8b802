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


// Package ai provides abstractions for the AI collaborators used by the
// ticket ingestion pipeline.
//
// The pipeline never talks to a model directly. Instead it depends on five
// narrow interfaces, one per pipeline stage that needs a model:
//
//   - ImageAnalyzer: describes screenshots attached to tickets
//   - TicketClassifier: decides whether a ticket is useful knowledge
//   - GraphEnricher: extracts structured entities from useful tickets
//   - TaxonomyMapper: projects entities onto the closed taxonomy vocabulary
//   - Embedder: generates vector embeddings for similarity search
//
// AIProvider aggregates all five for convenient initialization.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewClassifier, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockClassifier, mock.NewMockEmbedder,
// etc.) return CONCRETE types to enable test assertions and behavior
// injection via the mock's public methods (CallCount, WithXFunc, Reset).
//
//	mockClassify := mock.NewMockClassifier()  // returns *mock.MockClassifier
//	mockClassify.WithClassifyFunc(...)        // needs concrete type
//	count := mockClassify.CallCount()         // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com/v1"),
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithClassifierModel("gpt-4o-mini"),
//	    ai.WithEnricherModel("gpt-4o"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	verdict, err := provider.Classifier().Classify(ctx, ticket, instruction)
package ai

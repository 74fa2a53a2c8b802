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


// Package openai provides AI collaborator implementations using
// OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM). Classification and taxonomy mapping use the
// classifier model; graph enrichment and vision analysis use the enricher
// model, which is expected to be stronger.
//
// All chat collaborators run in JSON mode at temperature zero and retry up
// to three times on malformed responses, repairing common LLM JSON mistakes
// before each parse attempt.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithClassifierModel("qwen2.5:3b"),
//	    ai.WithEnricherModel("qwen2.5:32b"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	verdict, err := provider.Classifier().Classify(ctx, ticket, instruction)
//	vector, err := provider.Embedder().EmbedText(ctx, "payroll calculation fails")
package openai

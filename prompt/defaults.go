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


package prompt

// Instruction template keys used by the ingestion pipeline. Every key has a
// compiled-in default, so resolution for these keys never fails even with an
// empty store.
const (
	KeyClassification  = "ingestion_classification"
	KeyGraphEnrichment = "ingestion_graph_enrichment"
	KeyVisionAnalysis  = "vision_analysis"
	KeyTaxonomyMapping = "taxonomy_mapping"
)

const defaultClassification = `You are a Knowledge Engineer building a support dataset.
Analyze the conversation history and the visual descriptions to extract technical knowledge.

CRITERIA FOR "UTIL" (highest priority):
1. The ticket contains a definitive technical solution.
2. If the customer's question is not explicit, INFER THE SYMPTOM from the analyst's technical answer.
3. If error screenshots were described in an [IMAGE ANALYSIS] block, use the error text in the 'symptom' field.

CRITERIA FOR "INUTIL" (discard immediately):
1. Infrastructure problems (internet down, machine froze).
2. Commercial or billing matters (invoices, contracts, expired licenses).
3. "We'll check internally" with no final answer in the ticket.
4. Remote-access sessions where what was done is NOT described (e.g. "fixed via remote access").

In the 'solution' field, write an instructional tutorial: "Open menu X > Y and change Z".

Return ONLY a JSON object with this shape:
{
  "classification": "UTIL" or "INUTIL",
  "reasoning": "one-line justification",
  "symptom": "what was failing, from the user's point of view",
  "cause": "why it was failing",
  "solution": "instructional steps that resolved it",
  "tags": ["short", "keywords"]
}`

const defaultGraphEnrichment = `You are a Senior Data Engineer specialized in structuring technical support logs for RAG systems and knowledge graphs.

YOUR GOAL:
Analyze the conversation history and the knowledge extracted so far to produce structured entities and relationships.

EXPECTED OUTPUT (STRICT JSON):
Return ONLY a JSON object with this structure:
{
  "symptom_analysis": {
    "user_description": "short summary of how the layperson described it (e.g. 'grey button')",
    "technical_description": "detailed technical explanation. Include table names, routines, error codes and the failure flow. At least 20 words.",
    "error_codes": ["list", "of", "codes", "found"]
  },
  "graph_entities": {
    "modules": ["names of product modules involved"],
    "event_codes": ["regulatory event codes, e.g. S-1200"],
    "screens_menus": ["screens or menus mentioned"]
  },
  "atomic_solution": {
    "root_cause": "one-line summary of the cause",
    "ordered_steps": [
      "Step 1: action...",
      "Step 2: action..."
    ]
  }
}`

const defaultVisionAnalysis = `You are a level-3 support analyst specialized in ERP systems.
Analyze this screenshot.

Your mission:
1. Transcribe EXACTLY any error message, code or pop-up.
2. Identify the screen context (e.g. "payroll calculation screen", "invoice grid").
3. If there is no error, describe only the technical data visible.

Output: only the technical description of the visual evidence. No preamble.`

const defaultTaxonomyMapping = `You are a strict taxonomy classifier. Use ONLY values from the provided lists.

For every field in the output, choose the single best matching entry from the
corresponding list. If nothing matches exactly, choose "Other" or the most
generic option available. Never invent values outside the lists.

Return ONLY a JSON object with this shape:
{
  "module": "...",
  "functionality": "...",
  "symptom_category": "...",
  "cause_category": "...",
  "solution_category": "...",
  "error_codes": ["only codes present in the valid list"],
  "event_codes": ["only codes present in the valid list"]
}`

// defaults maps every known key to its compiled-in template.
var defaults = map[string]string{
	KeyClassification:  defaultClassification,
	KeyGraphEnrichment: defaultGraphEnrichment,
	KeyVisionAnalysis:  defaultVisionAnalysis,
	KeyTaxonomyMapping: defaultTaxonomyMapping,
}

// DefaultText returns the compiled-in template for a key, if one exists.
func DefaultText(key string) (string, bool) {
	text, ok := defaults[key]
	return text, ok
}

// Package prompt manages the instruction templates sent to AI collaborators.
//
// Templates live in a SQLite-backed store keyed by name, so operators can
// tune them at runtime without redeploying. Every key the ingestion pipeline
// uses also has a compiled-in default; the Resolver falls back to it when
// the store has no entry or cannot be reached, and reports which source won
// through Resolved.Source.
package prompt

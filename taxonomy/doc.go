// Package taxonomy manages the curated category tree that closed-vocabulary
// mapping draws from.
//
// Nodes live in a single SQLite table with a parent reference, so flat
// category lists (symptoms, causes, solutions, error and event codes) and
// the resource hierarchy (system > module > functionality) share one store.
// LoadVocabulary takes the per-batch snapshot the ingestion pipeline hands
// to the mapping collaborator.
package taxonomy

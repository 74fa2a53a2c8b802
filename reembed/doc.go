// Package reembed provides functionality for reembedding persisted ticket
// records with a new or updated embedding model.
//
// This package supports batch processing of ticket records, progress
// tracking, retry logic with exponential backoff, and vector normalization
// to keep the stored symptom vectors compatible with cosine similarity
// search.
package reembed

// Package ingestion provides pipeline orchestration for turning raw support
// tickets into knowledge graph records.
//
// The Pipeline type walks each ticket of a batch through a fixed funnel:
//   - Domain filtering against the target product
//   - Deduplication against identifiers already in the graph
//   - Vision annotation of attached images
//   - Classification into useful and useless tickets
//   - Graph enrichment and taxonomy mapping of useful tickets
//   - Embedding and batched persistence to the graph store
//
// Tickets are processed concurrently on a bounded worker pool. Progress is
// streamed to an EventSink as newline-framed events; per-ticket failures are
// counted in the batch statistics and never abort the run.
package ingestion

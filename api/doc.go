// Package api exposes the ticket knowledge base over HTTP.
//
// Endpoints:
//   - POST /api/ingestion — run the ingestion pipeline over a ticket batch,
//     streaming newline-delimited JSON progress events
//   - GET /api/search — semantic search over ingested symptoms
//   - GET /api/taxonomy/{type} — read-only taxonomy listing
//   - GET /api/stats — knowledge graph node counts
//   - GET /api/health — liveness check
//
// All endpoints except health require Bearer authentication when an API key
// is configured.
package api

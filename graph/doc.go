// Package graph defines the persistence interfaces for the ticket knowledge
// graph and the serialization helpers shared by its backends.
//
// The graph hangs every ticket record off shared nodes merged by content
// identity: three category nodes (symptom, cause, solution), a three-level
// resource chain (system > module > functionality) and the technical entity
// nodes it references (error codes, event codes, tags). Re-ingesting a
// ticket replaces its record and relinks it without ever duplicating shared
// nodes.
//
// The graph/badger sub-package provides the embedded BadgerDB backend.
package graph

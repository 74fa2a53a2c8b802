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


package taxonomy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Node types recognized by the ingestion pipeline. Resource nodes form a
// hierarchy (system > module > functionality); the other types are flat
// category lists.
const (
	TypeSymptom  = "symptom"
	TypeCause    = "cause"
	TypeSolution = "solution"
	TypeResource = "resource"
	TypeError    = "error"
	TypeEvent    = "event"
)

// Node is one entry of the curated taxonomy tree.
type Node struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ParentID    *int64         `json:"parent_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Active      bool           `json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Store persists taxonomy nodes. Implementations must be safe for
// concurrent use.
type Store interface {
	// ListNodes returns all active nodes of a type, parents first, then by
	// name.
	ListNodes(ctx context.Context, nodeType string) ([]*Node, error)

	// CreateNode inserts a node and returns its generated ID.
	CreateNode(ctx context.Context, node *Node) (int64, error)

	// UpdateNode replaces a node's name, description, parent and metadata.
	UpdateNode(ctx context.Context, node *Node) error

	// DeactivateNode soft-deletes a node. Inactive nodes stay in the table
	// but disappear from listings and vocabulary snapshots.
	DeactivateNode(ctx context.Context, id int64) error

	// Close releases the underlying database handle.
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
//
// Returns Store interface to enforce abstraction.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy store: open: %w", err)
	}

	// Enable WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("taxonomy store: wal: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS taxonomy_nodes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			type        TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			parent_id   INTEGER REFERENCES taxonomy_nodes(id) ON DELETE SET NULL,
			metadata    TEXT NOT NULL DEFAULT '{}',
			active      INTEGER NOT NULL DEFAULT 1,
			created_at  TEXT NOT NULL,
			UNIQUE(type, name, parent_id)
		);

		CREATE INDEX IF NOT EXISTS idx_taxonomy_type ON taxonomy_nodes(type);
	`)
	if err != nil {
		return fmt.Errorf("taxonomy store: migrate: %w", err)
	}
	return nil
}

// ListNodes returns all active nodes of a type, parents first, then by name.
func (s *SQLiteStore) ListNodes(ctx context.Context, nodeType string) ([]*Node, error) {
	if strings.TrimSpace(nodeType) == "" {
		return nil, ErrEmptyType
	}

	rows, err := sq.Select("id", "type", "name", "description", "parent_id", "metadata", "active", "created_at").
		From("taxonomy_nodes").
		Where(sq.Eq{"type": nodeType, "active": 1}).
		OrderBy("parent_id IS NOT NULL", "name ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("taxonomy store: list %s: %w", nodeType, err)
	}
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("taxonomy store: scan: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taxonomy store: rows: %w", err)
	}
	return nodes, nil
}

// CreateNode inserts a node and returns its generated ID.
func (s *SQLiteStore) CreateNode(ctx context.Context, node *Node) (int64, error) {
	if err := validateNode(node); err != nil {
		return 0, err
	}

	meta, err := marshalMetadata(node.Metadata)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	result, err := sq.Insert("taxonomy_nodes").
		Columns("type", "name", "description", "parent_id", "metadata", "active", "created_at").
		Values(node.Type, node.Name, node.Description, node.ParentID, meta, 1, now.Format(time.RFC3339)).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("taxonomy store: create %s/%s: %w", node.Type, node.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("taxonomy store: last insert id: %w", err)
	}

	node.ID = id
	node.Active = true
	node.CreatedAt = now
	return id, nil
}

// UpdateNode replaces a node's name, description, parent and metadata.
func (s *SQLiteStore) UpdateNode(ctx context.Context, node *Node) error {
	if err := validateNode(node); err != nil {
		return err
	}

	meta, err := marshalMetadata(node.Metadata)
	if err != nil {
		return err
	}

	result, err := sq.Update("taxonomy_nodes").
		Set("name", node.Name).
		Set("description", node.Description).
		Set("parent_id", node.ParentID).
		Set("metadata", meta).
		Where(sq.Eq{"id": node.ID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("taxonomy store: update %d: %w", node.ID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, node.ID)
	}
	return nil
}

// DeactivateNode soft-deletes a node.
func (s *SQLiteStore) DeactivateNode(ctx context.Context, id int64) error {
	result, err := sq.Update("taxonomy_nodes").
		Set("active", 0).
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("taxonomy store: deactivate %d: %w", id, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func validateNode(node *Node) error {
	if node == nil || strings.TrimSpace(node.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(node.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func marshalMetadata(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("taxonomy store: marshal metadata: %w", err)
	}
	return string(data), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*Node, error) {
	var node Node
	var parentID sql.NullInt64
	var meta string
	var active int
	var createdAt string

	if err := row.Scan(&node.ID, &node.Type, &node.Name, &node.Description, &parentID, &meta, &active, &createdAt); err != nil {
		return nil, err
	}

	if parentID.Valid {
		node.ParentID = &parentID.Int64
	}
	node.Active = active != 0
	if meta != "" && meta != "{}" {
		if err := json.Unmarshal([]byte(meta), &node.Metadata); err != nil {
			return nil, fmt.Errorf("metadata for node %d: %w", node.ID, err)
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		node.CreatedAt = t
	}
	return &node, nil
}

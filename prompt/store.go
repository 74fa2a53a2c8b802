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

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Record is a stored instruction template plus its metadata.
type Record struct {
	Key         string
	Text        string
	Description string
	UpdatedAt   time.Time
}

// Store persists instruction templates keyed by name. Implementations must
// be safe for concurrent use.
type Store interface {
	// GetTemplate returns the stored template for a key.
	// Returns ErrNotFound if the key has no stored template.
	GetTemplate(ctx context.Context, key string) (*Record, error)

	// UpsertTemplate creates or replaces the template for a key.
	UpsertTemplate(ctx context.Context, record *Record) error

	// ListTemplates returns all stored templates ordered by key.
	ListTemplates(ctx context.Context) ([]*Record, error)

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
		return nil, fmt.Errorf("prompt store: open: %w", err)
	}

	// Enable WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("prompt store: wal: %w", err)
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
		CREATE TABLE IF NOT EXISTS system_prompts (
			prompt_key  TEXT PRIMARY KEY,
			prompt_text TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			updated_at  TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("prompt store: migrate: %w", err)
	}
	return nil
}

// GetTemplate returns the stored template for a key.
func (s *SQLiteStore) GetTemplate(ctx context.Context, key string) (*Record, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}

	row := sq.Select("prompt_key", "prompt_text", "description", "updated_at").
		From("system_prompts").
		Where(sq.Eq{"prompt_key": key}).
		RunWith(s.db).
		QueryRowContext(ctx)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("prompt store: get %s: %w", key, err)
	}
	return record, nil
}

// UpsertTemplate creates or replaces the template for a key.
func (s *SQLiteStore) UpsertTemplate(ctx context.Context, record *Record) error {
	if record == nil || strings.TrimSpace(record.Key) == "" {
		return ErrEmptyKey
	}
	if strings.TrimSpace(record.Text) == "" {
		return ErrEmptyText
	}

	now := time.Now().UTC()
	_, err := sq.Insert("system_prompts").
		Columns("prompt_key", "prompt_text", "description", "updated_at").
		Values(record.Key, record.Text, record.Description, now.Format(time.RFC3339)).
		Suffix(`ON CONFLICT (prompt_key) DO UPDATE SET
			prompt_text = excluded.prompt_text,
			description = excluded.description,
			updated_at  = excluded.updated_at`).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("prompt store: upsert %s: %w", record.Key, err)
	}

	record.UpdatedAt = now
	return nil
}

// ListTemplates returns all stored templates ordered by key.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]*Record, error) {
	rows, err := sq.Select("prompt_key", "prompt_text", "description", "updated_at").
		From("system_prompts").
		OrderBy("prompt_key").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("prompt store: list: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("prompt store: scan: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prompt store: rows: %w", err)
	}
	return records, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var updatedAt string
	if err := row.Scan(&record.Key, &record.Text, &record.Description, &updatedAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		record.UpdatedAt = t
	}
	return &record, nil
}

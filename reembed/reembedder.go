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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the symptom embedding of every persisted ticket
// record. Run it after switching embedding models so the vector scan and
// the query embeddings live in the same space.
type Reembedder struct {
	repo      graph.TicketRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo graph.TicketRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the reembedding operation over every ticket record in the
// graph. Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	var records []*core.GraphTicketRecord
	err := r.repo.IterateTicketRecords(ctx, func(record *core.GraphTicketRecord) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list ticket records: %w", err)
	}

	totalRecords := len(records)
	if totalRecords == 0 {
		fmt.Fprintf(r.progress, "No ticket records found (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records (batch size: %d)\n",
		totalRecords, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalRecords, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for i := 0; i < totalRecords; i += r.config.BatchSize {
		end := i + r.config.BatchSize
		if end > totalRecords {
			end = totalRecords
		}

		if err := r.processor.Process(ctx, records[i:end]); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += end - i
		tracker.Update(processed)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		totalRecords, elapsed.Round(time.Second), float64(totalRecords)/elapsed.Seconds())

	return nil
}

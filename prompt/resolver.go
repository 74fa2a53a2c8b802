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
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Source identifies where a resolved template came from.
type Source string

const (
	// SourceStore means the template was read from the prompt store.
	SourceStore Source = "store"
	// SourceDefault means the compiled-in default was used.
	SourceDefault Source = "default"
)

// Resolved is an instruction template together with its provenance.
type Resolved struct {
	Key    string
	Text   string
	Source Source
}

// Resolver looks up instruction templates with fallback to compiled-in
// defaults. A nil store is valid: every known key then resolves to its
// default. Store failures degrade to the default too, so a broken or
// unreachable store never stops the pipeline.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given store. The store may be
// nil for a defaults-only resolver.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:  store,
		logger: slog.Default().With("component", "prompt-resolver"),
	}
}

// Resolve returns the template for a key along with its provenance. Keys
// with a compiled-in default never fail to resolve; keys without one return
// ErrUnknownKey when the store has no entry either.
func (r *Resolver) Resolve(ctx context.Context, key string) (*Resolved, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}

	if r.store != nil {
		record, err := r.store.GetTemplate(ctx, key)
		switch {
		case err == nil && strings.TrimSpace(record.Text) != "":
			return &Resolved{Key: key, Text: record.Text, Source: SourceStore}, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			r.logger.Warn("prompt store lookup failed, using default", "key", key, "err", err)
		}
	}

	if text, ok := DefaultText(key); ok {
		return &Resolved{Key: key, Text: text, Source: SourceDefault}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

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


package core

import (
	"fmt"
	"slices"
)

// ValidateRawTicket validates a RawTicket according to domain rules.
//
// Validation rules:
//   - ID must not be empty (it drives deduplication across re-ingestions)
//
// NOT validated (legitimately absent on many tickets):
//   - Protocol, Occurrences, Conversation (a summary-only ticket is valid)
func ValidateRawTicket(t *RawTicket) error {
	if t == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidTicket)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTicket, ErrEmptyTicketID)
	}
	return nil
}

// ValidateTicketRecord validates a GraphTicketRecord before persistence.
func ValidateTicketRecord(r *GraphTicketRecord) error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if r.TicketID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTicketID)
	}
	return nil
}

// NormalizeMapping defensively validates a TaxonomyMapping against the
// vocabulary snapshot. The mapping collaborator is instructed to only emit
// vocabulary values, but that contract is re-checked locally before anything
// reaches the graph:
//
//   - a single-value field outside its list degrades to FallbackCategory when
//     the list carries it, otherwise the mapping is rejected;
//   - unknown error/event codes are dropped and reported in the second
//     return value so the caller can log them.
//
// The input mapping is not mutated; a normalized copy is returned.
func NormalizeMapping(m *TaxonomyMapping, vocab *Vocabulary) (*TaxonomyMapping, []string, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("%w: mapping is nil", ErrInvalidMapping)
	}
	if vocab == nil {
		return nil, nil, fmt.Errorf("%w: vocabulary is nil", ErrInvalidMapping)
	}

	out := *m
	var dropped []string

	fields := []struct {
		name  string
		value *string
		list  []string
	}{
		{"module", &out.Module, vocab.Modules},
		{"functionality", &out.Functionality, vocab.Functionalities},
		{"symptom_category", &out.SymptomCategory, vocab.Symptoms},
		{"cause_category", &out.CauseCategory, vocab.Causes},
		{"solution_category", &out.SolutionCategory, vocab.Solutions},
	}
	for _, f := range fields {
		if len(f.list) == 0 {
			return nil, nil, fmt.Errorf("%w: no %s entries", ErrEmptyVocabulary, f.name)
		}
		if slices.Contains(f.list, *f.value) {
			continue
		}
		if !slices.Contains(f.list, FallbackCategory) {
			return nil, nil, fmt.Errorf("%w: %s %q", ErrOutsideVocabulary, f.name, *f.value)
		}
		dropped = append(dropped, fmt.Sprintf("%s:%s", f.name, *f.value))
		*f.value = FallbackCategory
	}

	out.ErrorCodes, dropped = filterKnown(out.ErrorCodes, vocab.ErrorCodes, "error_code", dropped)
	out.EventCodes, dropped = filterKnown(out.EventCodes, vocab.EventCodes, "event_code", dropped)

	return &out, dropped, nil
}

func filterKnown(values, list []string, label string, dropped []string) ([]string, []string) {
	kept := values[:0:0]
	for _, v := range values {
		if slices.Contains(list, v) {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, fmt.Sprintf("%s:%s", label, v))
		}
	}
	return kept, dropped
}

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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTicket indicates a RawTicket failed validation.
	ErrInvalidTicket = errors.New("invalid ticket")

	// ErrEmptyTicketID indicates the ticket identifier is empty.
	ErrEmptyTicketID = errors.New("ticket identifier cannot be empty")

	// ErrInvalidMapping indicates a TaxonomyMapping failed validation.
	ErrInvalidMapping = errors.New("invalid taxonomy mapping")

	// ErrOutsideVocabulary indicates a mapped value does not belong to the
	// vocabulary snapshot and no fallback entry is available.
	ErrOutsideVocabulary = errors.New("value outside vocabulary")

	// ErrEmptyVocabulary indicates a vocabulary snapshot with no usable entries.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")

	// ErrInvalidRecord indicates a GraphTicketRecord failed validation.
	ErrInvalidRecord = errors.New("invalid ticket record")
)

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

import "errors"

var (
	// ErrNotFound indicates the store holds no template for the key.
	ErrNotFound = errors.New("prompt: template not found")

	// ErrUnknownKey indicates the key has neither a stored template nor a
	// compiled-in default.
	ErrUnknownKey = errors.New("prompt: unknown template key")

	// ErrEmptyKey indicates an empty template key was supplied.
	ErrEmptyKey = errors.New("prompt: empty template key")

	// ErrEmptyText indicates an empty template body was supplied on write.
	ErrEmptyText = errors.New("prompt: empty template text")
)

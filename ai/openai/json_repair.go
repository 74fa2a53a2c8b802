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


package openai

import "strings"

// repairJSON attempts to fix common JSON formatting issues from LLM
// responses. It specifically handles missing opening quotes before keys,
// e.g. `, type":` becomes `, "type":`.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	i := 0
	for i < len(s) {
		c := s[i]
		out.WriteByte(c)
		i++
		if c != '{' && c != ',' {
			continue
		}

		// Skip whitespace after the delimiter.
		for i < len(s) && (s[i] == ' ' || s[i] == '\n' || s[i] == '\t') {
			out.WriteByte(s[i])
			i++
		}
		if i >= len(s) || s[i] == '"' || !isLetter(s[i]) {
			continue
		}

		// Unquoted run of key-like characters.
		start := i
		for i < len(s) && (isLetter(s[i]) || s[i] == '_' || s[i] == ' ') {
			i++
		}

		// Only a key if a closing quote and colon follow.
		if i+1 < len(s) && s[i] == '"' && s[i+1] == ':' {
			out.WriteByte('"')
			out.WriteString(strings.Trim(s[start:i], " "))
		} else {
			out.WriteString(s[start:i])
		}
	}

	return out.String()
}

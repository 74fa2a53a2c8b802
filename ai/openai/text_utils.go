package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/ticketgraph/core"
)

// renderTicket flattens a ticket into the plain-text form sent to chat
// models: summary and occurrences first, then the conversation transcript
// with one "role: text" line per message.
func renderTicket(t *core.RawTicket) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticket: %s\n", t.ID)
	if t.Protocol != "" {
		fmt.Fprintf(&b, "Protocol: %s\n", t.Protocol)
	}
	if t.System != "" {
		fmt.Fprintf(&b, "System: %s\n", t.System)
	}
	if t.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", t.Summary)
	}
	if t.Occurrences != "" {
		fmt.Fprintf(&b, "Occurrences: %s\n", t.Occurrences)
	}

	b.WriteString("\nConversation:\n")
	for _, msg := range t.Conversation {
		role := msg.Role
		if role == "" {
			role = "unknown"
		}
		fmt.Fprintf(&b, "[%s]: %s\n", role, msg.Text)
	}

	return b.String()
}

// stripFences removes a surrounding markdown code fence from a model
// response, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the byte is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

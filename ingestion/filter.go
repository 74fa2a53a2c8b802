package ingestion

import (
	"strings"

	"github.com/poiesic/ticketgraph/core"
)

// domainFilter decides whether a ticket belongs to the product domain the
// pipeline ingests for. A ticket passes when its declared system matches the
// target system, or when any of the configured keywords appears in its
// summary or occurrence text. A filter with no system and no keywords
// accepts everything.
type domainFilter struct {
	system   string
	keywords []string
}

func (f domainFilter) matches(t *core.RawTicket) bool {
	if f.system == "" && len(f.keywords) == 0 {
		return true
	}
	if f.system != "" && strings.EqualFold(strings.TrimSpace(t.System), f.system) {
		return true
	}
	if len(f.keywords) == 0 {
		return false
	}
	text := strings.ToLower(t.Summary + " " + t.Occurrences)
	for _, kw := range f.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

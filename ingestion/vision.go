package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/ticketgraph/core"
)

// annotateImages runs the vision collaborator over every image reference in
// the ticket and splices each description into the owning message's text.
// The caller's ticket is never mutated; when images are present a clone is
// returned. A failed image analysis is logged and skipped, the ticket
// proceeds with whatever text it has.
func (p *Pipeline) annotateImages(ctx context.Context, t *core.RawTicket, instruction string, emit func(core.ProgressEvent)) *core.RawTicket {
	total := len(t.ImageRefs())
	if total == 0 {
		return t
	}

	clone := t.Clone()
	analyzer := p.provider.ImageAnalyzer()

	n := 0
	for i := range clone.Conversation {
		msg := &clone.Conversation[i]
		for _, ref := range msg.Images {
			n++
			emit(core.LogEvent(t.ID, fmt.Sprintf("analyzing image %d of %d", n, total)))

			description, err := analyzer.AnalyzeImage(ctx, ref, instruction)
			if err != nil {
				p.logger.Warn("image analysis failed",
					"ticket_id", t.ID,
					"image", n,
					"err", err)
				emit(core.LogEvent(t.ID, fmt.Sprintf("image %d analysis failed, continuing with text only", n)))
				continue
			}

			msg.Text += "\n\n[IMAGE ANALYSIS]: " + description
		}
	}

	return clone
}

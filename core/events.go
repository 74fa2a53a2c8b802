package core

// Step identifies the kind of a ProgressEvent on the wire.
type Step string

const (
	// StepInit announces batch-level setup work.
	StepInit Step = "init"
	// StepProgress marks the start of one ticket's traversal.
	StepProgress Step = "progress"
	// StepLog carries a human-readable note about the current ticket.
	StepLog Step = "log"
	// StepError reports a failure; fatal when no Final event follows.
	StepError Step = "error"
	// StepFinal closes the stream with the batch statistics.
	StepFinal Step = "final"
)

// ProgressEvent is one line of the streamed ingestion protocol. Events are
// produced exclusively by the pipeline and never retracted or revised. Each
// event serializes as one independently parseable JSON object.
//
// Current/Total and TicketID are set on progress events; TicketID is also
// carried on log and error events so a concurrent consumer can reconstruct
// the per-ticket sequence. Stats is set only on the final event.
type ProgressEvent struct {
	Step     Step            `json:"step"`
	Message  string          `json:"msg,omitempty"`
	Current  int             `json:"current,omitempty"`
	Total    int             `json:"total,omitempty"`
	TicketID string          `json:"ticket_id,omitempty"`
	Stats    *IngestionStats `json:"stats,omitempty"`
}

// InitEvent announces batch setup.
func InitEvent(msg string) ProgressEvent {
	return ProgressEvent{Step: StepInit, Message: msg}
}

// TicketProgressEvent marks the start of processing ticket current of total.
func TicketProgressEvent(current, total int, ticketID, msg string) ProgressEvent {
	return ProgressEvent{Step: StepProgress, Current: current, Total: total, TicketID: ticketID, Message: msg}
}

// LogEvent carries a note about the named ticket; ticketID may be empty for
// batch-level notes.
func LogEvent(ticketID, msg string) ProgressEvent {
	return ProgressEvent{Step: StepLog, TicketID: ticketID, Message: msg}
}

// ErrorEvent reports a per-ticket or batch-fatal failure.
func ErrorEvent(ticketID, msg string) ProgressEvent {
	return ProgressEvent{Step: StepError, TicketID: ticketID, Message: msg}
}

// FinalEvent closes the stream with the accumulated statistics.
func FinalEvent(stats *IngestionStats) ProgressEvent {
	return ProgressEvent{Step: StepFinal, Stats: stats}
}

package ingestion

import "github.com/poiesic/ticketgraph/core"

// EventSink receives the progress events of one ingestion run, in emission
// order. Emit is called from worker goroutines but never concurrently; the
// pipeline serializes emissions. An Emit error is logged and the run
// continues, so a sink that wants to stop the batch should cancel the run's
// context instead.
type EventSink interface {
	Emit(event core.ProgressEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(event core.ProgressEvent) error

// Emit calls f(event).
func (f EventSinkFunc) Emit(event core.ProgressEvent) error {
	return f(event)
}

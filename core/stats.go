package core

// IngestionStats is the funnel counter set scoped to one batch run.
//
// The terminal buckets are filtered_by_domain, already_existed,
// classified_useless, processing_errors and persisted_successfully: every
// ticket ends in exactly one of them. classified_useful is a funnel-stage
// counter and is NOT reverted when a later stage fails, so it may overlap
// processing_errors for tickets that were approved and then failed
// enrichment, mapping or persistence.
type IngestionStats struct {
	TotalReceived         int `json:"total_received"`
	FilteredByDomain      int `json:"filtered_by_domain"`
	AlreadyExisted        int `json:"already_existed"`
	ClassifiedUseful      int `json:"classified_useful"`
	ClassifiedUseless     int `json:"classified_useless"`
	ProcessingErrors      int `json:"processing_errors"`
	PersistedSuccessfully int `json:"persisted_successfully"`
}

// Partitioned reports whether every ticket landed in exactly one terminal
// bucket.
func (s *IngestionStats) Partitioned() bool {
	return s.TotalReceived == s.FilteredByDomain+s.AlreadyExisted+
		s.ClassifiedUseless+s.ProcessingErrors+s.PersistedSuccessfully
}

// Consistent reports whether the counters satisfy the funnel invariants:
// the terminal buckets partition the batch and no more tickets were persisted
// than were classified useful.
func (s *IngestionStats) Consistent() bool {
	return s.Partitioned() && s.PersistedSuccessfully <= s.ClassifiedUseful
}

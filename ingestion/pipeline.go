package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph"
	"github.com/poiesic/ticketgraph/prompt"
	"github.com/poiesic/ticketgraph/taxonomy"
)

// Pipeline orchestrates the ingestion of raw support tickets into the
// knowledge graph: domain filtering, deduplication, vision annotation,
// classification, enrichment, taxonomy mapping and batched persistence.
// Collaborator-bound stages run on a bounded worker pool.
type Pipeline struct {
	graphRepo graph.TicketRepository
	taxonomy  taxonomy.Store
	prompts   *prompt.Resolver
	provider  ai.AIProvider
	pool      *ants.Pool
	filter    domainFilter
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent ticket processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1. A size of 1 yields
// strictly sequential processing in input order.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTargetSystem sets the product system name the domain filter matches
// tickets against. Comparison is case-insensitive.
func WithTargetSystem(system string) Option {
	return func(p *Pipeline) error {
		p.filter.system = system
		return nil
	}
}

// WithDomainKeywords sets the fallback keywords the domain filter searches
// for in a ticket's summary and occurrence text when the system name does
// not match.
func WithDomainKeywords(keywords ...string) Option {
	return func(p *Pipeline) error {
		p.filter.keywords = append([]string(nil), keywords...)
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. A nil prompt resolver is
// replaced with a defaults-only resolver. With no target system and no
// domain keywords configured, the domain filter accepts every ticket.
func NewPipeline(
	graphRepo graph.TicketRepository,
	taxonomyStore taxonomy.Store,
	prompts *prompt.Resolver,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if graphRepo == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if taxonomyStore == nil {
		return nil, ErrTaxonomyStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if prompts == nil {
		prompts = prompt.NewResolver(nil)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		graphRepo: graphRepo,
		taxonomy:  taxonomyStore,
		prompts:   prompts,
		provider:  provider,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// instructionSet holds the collaborator instruction templates resolved once
// at batch start.
type instructionSet struct {
	classification string
	enrichment     string
	vision         string
	mapping        string
}

func (p *Pipeline) resolveInstructions(ctx context.Context) (*instructionSet, error) {
	set := &instructionSet{}
	targets := []struct {
		key  string
		dest *string
	}{
		{prompt.KeyClassification, &set.classification},
		{prompt.KeyGraphEnrichment, &set.enrichment},
		{prompt.KeyVisionAnalysis, &set.vision},
		{prompt.KeyTaxonomyMapping, &set.mapping},
	}
	for _, t := range targets {
		resolved, err := p.prompts.Resolve(ctx, t.key)
		if err != nil {
			return nil, fmt.Errorf("resolving instruction %q: %w", t.key, err)
		}
		p.logger.Debug("instruction template resolved",
			"key", resolved.Key,
			"source", resolved.Source)
		*t.dest = resolved.Text
	}
	return set, nil
}

// Run processes one batch of tickets and streams progress events to the
// sink, ending with a Final event carrying the batch statistics. A nil sink
// discards events. When clearStore is true the graph store is wiped first
// and deduplication is disabled for the whole batch.
//
// Per-ticket failures are counted and never abort the batch; only a fatal
// batch-level fault (store or vocabulary unreachable at batch start, or
// context cancellation) terminates the stream with an Error event and no
// Final event. On cancellation, tickets already persisted stay persisted
// and the returned statistics cover only the tickets that were started.
func (p *Pipeline) Run(ctx context.Context, tickets []*core.RawTicket, clearStore bool, sink EventSink) (*core.IngestionStats, error) {
	var (
		mu         sync.Mutex
		emitFailed bool
	)
	emit := func(ev core.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if sink == nil {
			return
		}
		if err := sink.Emit(ev); err != nil {
			if !emitFailed {
				p.logger.Warn("event sink failed, further emit errors suppressed", "err", err)
			}
			emitFailed = true
		}
	}

	stats := &core.IngestionStats{TotalReceived: len(tickets)}

	emit(core.InitEvent("checking the knowledge graph store"))

	instructions, err := p.resolveInstructions(ctx)
	if err != nil {
		emit(core.ErrorEvent("", err.Error()))
		return nil, err
	}

	existing := map[string]bool{}
	if clearStore {
		if err := p.graphRepo.WipeAll(ctx); err != nil {
			err = fmt.Errorf("wiping graph store: %w", err)
			emit(core.ErrorEvent("", err.Error()))
			return nil, err
		}
		emit(core.LogEvent("", "graph store cleared"))
	} else {
		existing, err = p.graphRepo.ListExistingIDs(ctx)
		if err != nil {
			err = fmt.Errorf("loading existing ticket ids: %w", err)
			emit(core.ErrorEvent("", err.Error()))
			return nil, err
		}
	}

	vocab, err := taxonomy.LoadVocabulary(ctx, p.taxonomy)
	if err != nil {
		err = fmt.Errorf("loading taxonomy vocabulary: %w", err)
		emit(core.ErrorEvent("", err.Error()))
		return nil, err
	}

	emit(core.InitEvent(fmt.Sprintf("analyzing %d tickets", len(tickets))))

	var (
		wg    sync.WaitGroup
		bmu   sync.Mutex
		batch []*core.GraphTicketRecord
	)
	count := func(bump func(s *core.IngestionStats)) {
		bmu.Lock()
		defer bmu.Unlock()
		bump(stats)
	}

	started := 0
	for i, ticket := range tickets {
		if ctx.Err() != nil {
			break
		}
		started++

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if record := p.processTicket(ctx, i+1, len(tickets), ticket, existing, vocab, instructions, emit, count); record != nil {
				bmu.Lock()
				batch = append(batch, record)
				bmu.Unlock()
			}
		}
		if submitErr := p.pool.Submit(task); submitErr != nil {
			task()
		}
	}
	wg.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		stats.TotalReceived = started
		emit(core.ErrorEvent("", fmt.Sprintf("ingestion aborted after %d of %d tickets: %v", started, len(tickets), ctxErr)))
		return stats, ctxErr
	}

	if len(batch) > 0 {
		emit(core.LogEvent("", fmt.Sprintf("persisting %d tickets to the knowledge graph", len(batch))))
	}
	for _, record := range batch {
		if err := p.graphRepo.UpsertTicketRecords(ctx, record); err != nil {
			p.logger.Error("failed to persist ticket record",
				"ticket_id", record.TicketID,
				"err", err)
			stats.ProcessingErrors++
			emit(core.ErrorEvent(record.TicketID, fmt.Sprintf("persistence failed: %v", err)))
			continue
		}
		stats.PersistedSuccessfully++
	}

	emit(core.FinalEvent(stats))
	return stats, nil
}

// processTicket walks one ticket through the per-ticket stages and returns
// the record to persist, or nil when the ticket terminated earlier. Stage
// failures never escape; they are counted and reported through the sink.
func (p *Pipeline) processTicket(
	ctx context.Context,
	current, total int,
	ticket *core.RawTicket,
	existing map[string]bool,
	vocab *core.Vocabulary,
	instructions *instructionSet,
	emit func(core.ProgressEvent),
	count func(func(s *core.IngestionStats)),
) *core.GraphTicketRecord {
	emit(core.TicketProgressEvent(current, total, ticket.ID, fmt.Sprintf("processing ticket %d of %d", current, total)))

	if err := core.ValidateRawTicket(ticket); err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("invalid ticket: %v", err)))
		return nil
	}

	if !p.filter.matches(ticket) {
		count(func(s *core.IngestionStats) { s.FilteredByDomain++ })
		emit(core.LogEvent(ticket.ID, "outside the target domain, skipped"))
		return nil
	}

	if existing[ticket.ID] {
		count(func(s *core.IngestionStats) { s.AlreadyExisted++ })
		emit(core.LogEvent(ticket.ID, "already in the knowledge graph, skipped"))
		return nil
	}

	annotated := p.annotateImages(ctx, ticket, instructions.vision, emit)

	verdict, err := p.provider.Classifier().Classify(ctx, annotated, instructions.classification)
	if err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("classification failed: %v", err)))
		return nil
	}
	if !verdict.Useful() {
		count(func(s *core.IngestionStats) { s.ClassifiedUseless++ })
		emit(core.LogEvent(ticket.ID, "classified useless: "+verdict.Reasoning))
		return nil
	}
	count(func(s *core.IngestionStats) { s.ClassifiedUseful++ })
	emit(core.LogEvent(ticket.ID, "classified useful, extracting knowledge"))

	enrichment, err := p.provider.Enricher().Enrich(ctx, annotated, verdict, instructions.enrichment)
	if err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("enrichment failed: %v", err)))
		return nil
	}

	mapping, err := p.provider.Mapper().MapTaxonomy(ctx, enrichment, vocab, instructions.mapping)
	if err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("taxonomy mapping failed: %v", err)))
		return nil
	}

	normalized, dropped, err := core.NormalizeMapping(mapping, vocab)
	if err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("taxonomy mapping rejected: %v", err)))
		return nil
	}
	if len(dropped) > 0 {
		p.logger.Warn("mapping values outside the vocabulary",
			"ticket_id", ticket.ID,
			"dropped", dropped)
		emit(core.LogEvent(ticket.ID, fmt.Sprintf("dropped out-of-vocabulary values: %v", dropped)))
	}

	vector, err := p.provider.Embedder().EmbedText(ctx, enrichment.SymptomDetailText())
	if err != nil {
		count(func(s *core.IngestionStats) { s.ProcessingErrors++ })
		emit(core.ErrorEvent(ticket.ID, fmt.Sprintf("embedding failed: %v", err)))
		return nil
	}

	return core.BuildTicketRecord(annotated, verdict, enrichment, normalized, vector)
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

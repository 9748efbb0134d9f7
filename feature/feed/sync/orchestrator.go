package sync

import (
	"context"
	"fmt"
	"time"

	"feed-sync/feature/feed/export"
	"feed-sync/feature/feed/knownset"
	"feed-sync/feature/feed/models"
	"feed-sync/feature/feed/parser"
	"feed-sync/feature/feed/reconcile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sources holds the feed inputs for one run. Products is mandatory; Pricing
// and Availability are optional side feeds overlaid onto the product snapshot
// by SKU before reconciliation.
type Sources struct {
	Products     parser.RowReader
	Pricing      parser.RowReader
	Availability parser.RowReader
}

// Options parameterizes a run without changing the wiring.
type Options struct {
	// Reconcile carries the classification policy.
	Reconcile reconcile.Options
	// DryRun computes and reports the outcome but writes nothing: no
	// export artifact, no state update.
	DryRun bool
}

// Orchestrator drives one complete sync: load state, parse feeds, reconcile,
// publish the export artifact, persist the updated state. It either completes
// the whole sequence or leaves both the previous artifact and the previous
// state untouched.
type Orchestrator struct {
	parser     *parser.Parser
	store      knownset.Store
	serializer *export.Serializer
	logger     *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given collaborators.
func NewOrchestrator(p *parser.Parser, store knownset.Store, serializer *export.Serializer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		parser:     p,
		store:      store,
		serializer: serializer,
		logger:     logger,
	}
}

// Run executes one sync against the given sources and writes the export to
// outPath. Storage and serialization failures abort the run before any state
// is modified; malformed feed rows are skipped, tallied and reported in the
// summary.
func (o *Orchestrator) Run(ctx context.Context, src Sources, outPath string, opts Options) (*models.RunSummary, error) {
	runID := uuid.New().String()
	started := time.Now().UTC()
	log := o.logger.With(zap.String("run_id", runID))

	log.Info("Sync run started", zap.Bool("dry_run", opts.DryRun))

	known, err := o.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading known set: %w", err)
	}
	log.Debug("Known set loaded",
		zap.Int("tracked", known.Len()),
		zap.Int("active", known.ActiveCount()))

	products, failures, err := o.ingest(src, log)
	if err != nil {
		return nil, err
	}

	outcome := reconcile.Reconcile(products, known, opts.Reconcile)

	summary := &models.RunSummary{
		RunID:         runID,
		Created:       outcome.Created,
		Updated:       outcome.Updated,
		Archived:      outcome.Archived,
		ParseFailures: failures,
		Started:       started,
		DryRun:        opts.DryRun,
	}

	if opts.DryRun {
		summary.Finished = time.Now().UTC()
		log.Info("Dry run complete, nothing written",
			zap.Int("created", outcome.Created),
			zap.Int("updated", outcome.Updated),
			zap.Int("archived", outcome.Archived),
			zap.Int("parse_failures", failures))
		return summary, nil
	}

	// Publish the artifact first, then the state. A crash between the two
	// re-emits CREATE rows on the next run, which the downstream import
	// absorbs; the reverse order would silently drop them.
	if err := o.serializer.WriteFile(outPath, outcome.Records); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}
	if err := o.store.Save(ctx, outcome.Known); err != nil {
		return nil, fmt.Errorf("saving known set: %w", err)
	}

	summary.Finished = time.Now().UTC()
	summary.OutputPath = outPath

	log.Info("Sync run complete",
		zap.Int("created", outcome.Created),
		zap.Int("updated", outcome.Updated),
		zap.Int("archived", outcome.Archived),
		zap.Int("parse_failures", failures),
		zap.String("output", outPath))
	return summary, nil
}

// ingest parses the product feed and overlays the optional side feeds,
// accumulating skipped-row counts across all three.
func (o *Orchestrator) ingest(src Sources, log *zap.Logger) ([]models.FeedProduct, int, error) {
	products, failures, err := o.parser.Parse(src.Products)
	if err != nil {
		return nil, failures, fmt.Errorf("parsing product feed: %w", err)
	}

	var prices map[string]decimal.Decimal
	if src.Pricing != nil {
		var priceFailures int
		prices, priceFailures, err = o.parser.ParsePriceList(src.Pricing)
		if err != nil {
			return nil, failures, fmt.Errorf("parsing pricing feed: %w", err)
		}
		failures += priceFailures
	}

	var stock map[string]int
	if src.Availability != nil {
		var stockFailures int
		stock, stockFailures, err = o.parser.ParseStockList(src.Availability)
		if err != nil {
			return nil, failures, fmt.Errorf("parsing availability feed: %w", err)
		}
		failures += stockFailures
	}

	if prices != nil || stock != nil {
		products = parser.MergeSideFeeds(products, prices, stock)
	}

	if failures > 0 {
		log.Warn("Feed rows skipped as malformed", zap.Int("count", failures))
	}
	return products, failures, nil
}

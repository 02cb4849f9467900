package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// VerdictSink receives each verdict as it is produced, before the run
// completes. Used to stream verdict events to the reporting boundary.
type VerdictSink interface {
	PublishVerdict(ctx context.Context, verdict domain.AuditVerdict) error
}

// Engine drives a full audit run: a bounded pool of workers, each resolving
// and classifying one record at a time. Records are independent; the only
// shared mutable state is node health inside the pool and the aggregate
// counters, both mutex-guarded.
type Engine struct {
	pool        *domain.NodePool
	resolver    *FailoverResolver
	comparator  *Comparator
	concurrency int
	sink        VerdictSink
	logger      *slog.Logger
}

// NewEngine wires the audit pipeline. sink may be nil.
func NewEngine(pool *domain.NodePool, resolver *FailoverResolver, comparator *Comparator, concurrency int, sink VerdictSink, logger *slog.Logger) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		pool:        pool,
		resolver:    resolver,
		comparator:  comparator,
		concurrency: concurrency,
		sink:        sink,
		logger:      logger.With("component", "audit_engine"),
	}
}

// Run audits all records and returns their verdicts in input order plus the
// run summary. Cancellation is cooperative: no new resolutions start once ctx
// is done, and in-flight requests drain to their timeout. Every record yields
// exactly one verdict, including those skipped by cancellation (Unreachable
// with a cancellation reason) so counts always sum to the input size.
func (e *Engine) Run(ctx context.Context, records []domain.NumberRecord) ([]domain.AuditVerdict, domain.AuditSummary, error) {
	e.logger.InfoContext(ctx, "Starting audit run",
		"records", len(records), "nodes", e.pool.Size(), "concurrency", e.concurrency)

	verdicts := make([]domain.AuditVerdict, len(records))
	aggregator := NewAggregator()

	g := &errgroup.Group{}
	g.SetLimit(e.concurrency)

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			verdicts[i] = e.auditOne(ctx, records[i], aggregator)
			return nil
		})
	}
	_ = g.Wait()

	// Records never started because of cancellation still get a verdict.
	for i := range records {
		if verdicts[i].Classification == "" {
			verdicts[i] = domain.AuditVerdict{
				Record:         records[i],
				Classification: domain.ClassificationUnreachable,
				Reason:         "audit run cancelled before record was processed",
				AuditedAt:      time.Now().UTC(),
			}
			aggregator.Record(verdicts[i])
		}
	}

	summary := aggregator.Snapshot(e.pool)
	e.logger.InfoContext(ctx, "Audit run finished",
		"records", summary.TotalRecords,
		"compliant", summary.PerClassification[domain.ClassificationCompliant],
		"misrouted", summary.PerClassification[domain.ClassificationMisrouted],
		"rule_gaps", summary.PerClassification[domain.ClassificationRuleGap],
		"unreachable", summary.PerClassification[domain.ClassificationUnreachable],
		"invalid", summary.PerClassification[domain.ClassificationInvalid],
	)
	return verdicts, summary, ctx.Err()
}

// auditOne resolves and classifies a single record.
func (e *Engine) auditOne(ctx context.Context, record domain.NumberRecord, aggregator *Aggregator) domain.AuditVerdict {
	started := time.Now()

	var (
		rn       string
		nodeURL  string
		attempts []domain.QueryAttempt
	)
	if record.SanitizeErr == nil {
		// Sanitization failures never reach the network.
		rn, nodeURL, attempts, _ = e.resolver.Resolve(ctx, record)
	}

	verdict := e.comparator.Audit(ctx, record, rn, nodeURL, attempts)
	aggregator.Record(verdict)

	recordsAuditedCounter.WithLabelValues(string(verdict.Classification)).Inc()
	resolveDurationHist.WithLabelValues(string(verdict.Classification)).Observe(time.Since(started).Seconds())
	for _, attempt := range verdict.Attempts {
		nodeAttemptsCounter.WithLabelValues(attempt.NodeURL, string(attempt.Outcome)).Inc()
	}

	if e.sink != nil {
		if err := e.sink.PublishVerdict(ctx, verdict); err != nil {
			e.logger.WarnContext(ctx, "Failed to publish verdict event",
				"msisdn", record.RawMSISDN, "error", err)
		}
	}
	return verdict
}

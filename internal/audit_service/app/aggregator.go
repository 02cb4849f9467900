package app

import (
	"sync"
	"time"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Aggregator accumulates per-record verdicts and per-node attempt statistics
// into the run summary. Purely additive; safe for concurrent workers.
type Aggregator struct {
	mu                sync.Mutex
	totalRecords      int
	perClassification map[domain.Classification]int
	perNode           map[string]domain.NodeCounters
	perCarrier        map[string]int
	startedAt         time.Time
}

// NewAggregator starts an empty summary for a run.
func NewAggregator() *Aggregator {
	return &Aggregator{
		perClassification: make(map[domain.Classification]int),
		perNode:           make(map[string]domain.NodeCounters),
		perCarrier:        make(map[string]int),
		startedAt:         time.Now().UTC(),
	}
}

// Record folds one verdict (with its attempt trace) into the counters.
func (a *Aggregator) Record(verdict domain.AuditVerdict) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRecords++
	a.perClassification[verdict.Classification]++
	if verdict.ResolvedCarrier != "" {
		a.perCarrier[verdict.ResolvedCarrier]++
	}

	for _, attempt := range verdict.Attempts {
		counters := a.perNode[attempt.NodeURL]
		counters.Attempts++
		switch attempt.Outcome {
		case domain.OutcomeSuccess:
			counters.Successes++
		case domain.OutcomeTimeout:
			counters.Timeouts++
		case domain.OutcomeHTTPError:
			counters.HTTPErrors++
		case domain.OutcomeParseError:
			counters.ParseErrors++
		}
		a.perNode[attempt.NodeURL] = counters
	}
}

// Snapshot returns a read-only copy of the summary. Node health statuses are
// filled in from the pool so reporting sees the final per-run state.
func (a *Aggregator) Snapshot(pool *domain.NodePool) domain.AuditSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := domain.AuditSummary{
		TotalRecords:      a.totalRecords,
		PerClassification: make(map[domain.Classification]int, len(a.perClassification)),
		PerNode:           make(map[string]domain.NodeCounters, len(a.perNode)),
		PerCarrier:        make(map[string]int, len(a.perCarrier)),
		StartedAt:         a.startedAt,
		FinishedAt:        time.Now().UTC(),
	}
	for k, v := range a.perClassification {
		summary.PerClassification[k] = v
	}
	for k, v := range a.perNode {
		summary.PerNode[k] = v
	}
	for k, v := range a.perCarrier {
		summary.PerCarrier[k] = v
	}

	if pool != nil {
		for _, node := range pool.Snapshot() {
			counters := summary.PerNode[node.URL]
			counters.LastStatus = node.LastStatus
			summary.PerNode[node.URL] = counters
		}
	}
	return summary
}

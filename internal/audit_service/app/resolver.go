package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/teleaudit/trat/internal/audit_service/domain"
	"github.com/teleaudit/trat/internal/audit_service/extract"
)

// Transport issues one GET against a node. Implementations own connection
// handling; the resolver only requires the status/body contract.
type Transport interface {
	Get(ctx context.Context, url string) (statusCode int, body string, err error)
}

// ResolverConfig is the per-request policy for node resolution.
type ResolverConfig struct {
	// RequestTimeout bounds each individual node request.
	RequestTimeout time.Duration
	// ThrottleDelay is the courtesy pause before each request.
	ThrottleDelay time.Duration
	// DeadThreshold is the consecutive-failure count that marks a node dead.
	DeadThreshold int
}

// FailoverResolver resolves one record's routing number by walking the node
// pool in order: one request per node, no same-node retries, a single pass
// over the pool. Worst-case latency per record is therefore bounded by
// pool size x (timeout + throttle delay).
type FailoverResolver struct {
	pool      *domain.NodePool
	transport Transport
	extractor *extract.Extractor
	cfg       ResolverConfig
	logger    *slog.Logger
}

// NewFailoverResolver builds a resolver over the given pool and transport.
func NewFailoverResolver(pool *domain.NodePool, transport Transport, extractor *extract.Extractor, cfg ResolverConfig, logger *slog.Logger) *FailoverResolver {
	return &FailoverResolver{
		pool:      pool,
		transport: transport,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger.With("component", "failover_resolver"),
	}
}

// Resolve queries nodes in failover order until one returns a parsable
// routing number. It returns the extracted RN, the URL of the answering node
// and the full attempt trace; rn is empty when the pool was exhausted.
func (r *FailoverResolver) Resolve(ctx context.Context, record domain.NumberRecord) (rn string, sourceNodeURL string, attempts []domain.QueryAttempt, err error) {
	for node := r.pool.Next(-1); node != nil; node = r.pool.Next(node.Ordinal) {
		if err := r.throttle(ctx); err != nil {
			return "", "", attempts, err
		}

		attempt := r.query(ctx, node, record.SanitizedMSISDN)
		attempts = append(attempts, attempt)

		switch attempt.Outcome {
		case domain.OutcomeSuccess:
			r.pool.MarkSuccess(node.Ordinal)
			r.logger.DebugContext(ctx, "Routing number resolved",
				"msisdn", record.SanitizedMSISDN, "node", node.URL, "rn", attempt.ExtractedRN)
			return attempt.ExtractedRN, node.URL, attempts, nil
		case domain.OutcomeParseError:
			// The payload may be node-specific garbage; not counted against
			// node health, just fail over.
			r.logger.WarnContext(ctx, "Response had no parsable routing number, failing over",
				"msisdn", record.SanitizedMSISDN, "node", node.URL)
		default:
			r.pool.MarkFailure(node.Ordinal, r.cfg.DeadThreshold)
			r.logger.WarnContext(ctx, "Node request failed, failing over",
				"msisdn", record.SanitizedMSISDN, "node", node.URL,
				"outcome", attempt.Outcome, "error", attempt.Err)
		}
	}

	r.logger.ErrorContext(ctx, "Node pool exhausted for record",
		"msisdn", record.SanitizedMSISDN, "attempts", len(attempts))
	return "", "", attempts, domain.ErrPoolExhausted
}

// query issues one request against one node and classifies the outcome.
func (r *FailoverResolver) query(ctx context.Context, node *domain.NodeEndpoint, msisdn string) domain.QueryAttempt {
	attempt := domain.QueryAttempt{NodeURL: node.URL, NodeOrdinal: node.Ordinal}

	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	started := time.Now()
	status, body, err := r.transport.Get(reqCtx, node.URL+"?id="+msisdn)
	attempt.Latency = time.Since(started)
	attempt.StatusCode = status

	if err != nil {
		attempt.Err = err.Error()
		if isTimeout(err) {
			attempt.Outcome = domain.OutcomeTimeout
		} else {
			attempt.Outcome = domain.OutcomeHTTPError
		}
		return attempt
	}
	if status < 200 || status >= 300 {
		attempt.Outcome = domain.OutcomeHTTPError
		return attempt
	}

	extracted, err := r.extractor.Extract(body)
	if err != nil {
		attempt.Outcome = domain.OutcomeParseError
		attempt.Err = err.Error()
		return attempt
	}
	attempt.Outcome = domain.OutcomeSuccess
	attempt.ExtractedRN = extracted
	return attempt
}

// throttle waits the configured courtesy delay, aborting early on cancel.
func (r *FailoverResolver) throttle(ctx context.Context) error {
	if r.cfg.ThrottleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.cfg.ThrottleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

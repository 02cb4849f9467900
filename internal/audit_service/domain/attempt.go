package domain

import "time"

// AttemptOutcome classifies a single query against a single node.
type AttemptOutcome string

const (
	OutcomeSuccess    AttemptOutcome = "success"
	OutcomeTimeout    AttemptOutcome = "timeout"
	OutcomeHTTPError  AttemptOutcome = "http_error"
	OutcomeParseError AttemptOutcome = "parse_error"
)

// QueryAttempt is the diagnostic trace of one request issued while resolving
// one record. Attempts are consumed by the comparator/aggregator and retained
// on the verdict for diagnostics only.
type QueryAttempt struct {
	NodeURL     string
	NodeOrdinal int
	Outcome     AttemptOutcome
	ExtractedRN string
	StatusCode  int
	Latency     time.Duration
	Err         string
}

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Comparator applies the direction-based routing rules to resolved routing
// numbers and produces the terminal verdict for each record.
type Comparator struct {
	rules    *domain.RuleTable
	carriers *domain.CarrierRegistry
	logger   *slog.Logger
}

// NewComparator builds a comparator over a loaded rule table.
func NewComparator(rules *domain.RuleTable, carriers *domain.CarrierRegistry, logger *slog.Logger) *Comparator {
	return &Comparator{
		rules:    rules,
		carriers: carriers,
		logger:   logger.With("component", "comparator"),
	}
}

// Audit classifies one record given the resolver result. Every record yields
// exactly one verdict; sanitization failures, unreachable pools and rule gaps
// become terminal classifications rather than errors.
func (c *Comparator) Audit(ctx context.Context, record domain.NumberRecord, resolvedRN string, sourceNodeURL string, attempts []domain.QueryAttempt) domain.AuditVerdict {
	verdict := domain.AuditVerdict{
		Record:        record,
		ResolvedRN:    resolvedRN,
		SourceNodeURL: sourceNodeURL,
		Attempts:      attempts,
		AuditedAt:     time.Now().UTC(),
	}

	if record.SanitizeErr != nil {
		verdict.Classification = domain.ClassificationInvalid
		verdict.Reason = record.SanitizeErr.Error()
		return verdict
	}
	if resolvedRN == "" {
		verdict.Classification = domain.ClassificationUnreachable
		verdict.Reason = domain.ErrPoolExhausted.Error()
		return verdict
	}

	verdict.ResolvedCarrier = c.carriers.Match(resolvedRN)

	rule, err := c.rules.Lookup(record.SanitizedMSISDN)
	if err != nil {
		// A number range the rule table does not cover is an audit failure in
		// its own right and must stay visible, never silently skipped.
		c.logger.WarnContext(ctx, "No routing rule covers number range",
			"msisdn", record.SanitizedMSISDN, "direction", record.Direction)
		verdict.Classification = domain.ClassificationRuleGap
		verdict.Reason = err.Error()
		return verdict
	}

	homeMatch := rule.MatchesRN(resolvedRN)
	// Inbound traffic must resolve to the home routing number for its range;
	// outbound traffic must resolve away from it (the complementary rule).
	directionMatch := homeMatch
	if record.Direction == domain.DirectionOutbound {
		directionMatch = !homeMatch
	}
	verdict.DirectionMatch = &directionMatch

	if directionMatch {
		verdict.Classification = domain.ClassificationCompliant
	} else {
		verdict.Classification = domain.ClassificationMisrouted
		verdict.Reason = "resolved RN violates direction rule for prefix " + rule.NumberPrefix
	}
	return verdict
}

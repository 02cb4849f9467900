package domain

import "time"

// Classification is the terminal audit result for one record.
type Classification string

const (
	ClassificationCompliant   Classification = "compliant"
	ClassificationMisrouted   Classification = "misrouted"
	ClassificationRuleGap     Classification = "rule_gap"
	ClassificationUnreachable Classification = "unreachable"
	ClassificationInvalid     Classification = "invalid"
)

// AuditVerdict is produced exactly once per input record.
// DirectionMatch is populated only for Compliant/Misrouted verdicts;
// rule gaps, unreachable numbers and invalid inputs carry a Reason instead.
type AuditVerdict struct {
	Record          NumberRecord
	ResolvedRN      string
	ResolvedCarrier string
	SourceNodeURL   string
	DirectionMatch  *bool
	Classification  Classification
	Reason          string
	Attempts        []QueryAttempt
	AuditedAt       time.Time
}

// NodeCounters aggregates attempt outcomes against one node across a run.
type NodeCounters struct {
	Attempts    int
	Successes   int
	Timeouts    int
	HTTPErrors  int
	ParseErrors int
	LastStatus  NodeStatus
}

// AuditSummary is the run-level aggregate handed to the reporting layer.
type AuditSummary struct {
	TotalRecords      int
	PerClassification map[Classification]int
	PerNode           map[string]NodeCounters
	PerCarrier        map[string]int
	StartedAt         time.Time
	FinishedAt        time.Time
}

// SuccessRate is the share of compliant verdicts, in [0, 1].
func (s AuditSummary) SuccessRate() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.PerClassification[ClassificationCompliant]) / float64(s.TotalRecords)
}

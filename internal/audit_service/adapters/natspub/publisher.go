package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Broker is the messaging capability the publisher needs; satisfied by
// *messagebroker.NATSClient.
type Broker interface {
	Publish(subject string, data []byte) error
}

// VerdictEvent is the wire shape of one published audit verdict.
type VerdictEvent struct {
	RecordID        string    `json:"record_id"`
	Direction       string    `json:"direction"`
	RawMSISDN       string    `json:"raw_msisdn"`
	SanitizedMSISDN string    `json:"sanitized_msisdn,omitempty"`
	ResolvedRN      string    `json:"resolved_rn,omitempty"`
	ResolvedCarrier string    `json:"resolved_carrier,omitempty"`
	SourceNode      string    `json:"source_node,omitempty"`
	Classification  string    `json:"classification"`
	Reason          string    `json:"reason,omitempty"`
	AttemptCount    int       `json:"attempt_count"`
	AuditedAt       time.Time `json:"audited_at"`
}

// SummaryEvent is the wire shape of the end-of-run summary.
type SummaryEvent struct {
	RunID             string         `json:"run_id"`
	TotalRecords      int            `json:"total_records"`
	PerClassification map[string]int `json:"per_classification"`
	SuccessRate       float64        `json:"success_rate"`
	StartedAt         time.Time      `json:"started_at"`
	FinishedAt        time.Time      `json:"finished_at"`
}

// Publisher streams verdicts and the run summary onto NATS subjects
// ("<prefix>.verdict", "<prefix>.summary") for downstream reporting consumers.
type Publisher struct {
	client        Broker
	subjectPrefix string
	runID         string
	logger        *slog.Logger
}

// NewPublisher wraps an established NATS connection.
func NewPublisher(client Broker, subjectPrefix string, runID string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:        client,
		subjectPrefix: subjectPrefix,
		runID:         runID,
		logger:        logger.With("component", "verdict_publisher"),
	}
}

// PublishVerdict emits one verdict event.
func (p *Publisher) PublishVerdict(ctx context.Context, verdict domain.AuditVerdict) error {
	event := VerdictEvent{
		RecordID:        verdict.Record.ID.String(),
		Direction:       string(verdict.Record.Direction),
		RawMSISDN:       verdict.Record.RawMSISDN,
		SanitizedMSISDN: verdict.Record.SanitizedMSISDN,
		ResolvedRN:      verdict.ResolvedRN,
		ResolvedCarrier: verdict.ResolvedCarrier,
		SourceNode:      verdict.SourceNodeURL,
		Classification:  string(verdict.Classification),
		Reason:          verdict.Reason,
		AttemptCount:    len(verdict.Attempts),
		AuditedAt:       verdict.AuditedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling verdict event: %w", err)
	}
	subject := p.subjectPrefix + ".verdict"
	if err := p.client.Publish(subject, data); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "Published verdict event", "subject", subject, "record_id", event.RecordID)
	return nil
}

// PublishSummary emits the end-of-run summary event.
func (p *Publisher) PublishSummary(ctx context.Context, summary domain.AuditSummary) error {
	event := SummaryEvent{
		RunID:             p.runID,
		TotalRecords:      summary.TotalRecords,
		PerClassification: make(map[string]int, len(summary.PerClassification)),
		SuccessRate:       summary.SuccessRate(),
		StartedAt:         summary.StartedAt,
		FinishedAt:        summary.FinishedAt,
	}
	for k, v := range summary.PerClassification {
		event.PerClassification[string(k)] = v
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling summary event: %w", err)
	}
	subject := p.subjectPrefix + ".summary"
	if err := p.client.Publish(subject, data); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Published run summary event", "subject", subject, "run_id", p.runID)
	return nil
}

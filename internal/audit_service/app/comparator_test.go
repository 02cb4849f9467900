package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

func testComparator(t *testing.T) *Comparator {
	t.Helper()
	table, err := domain.NewRuleTable([]domain.RoutingRule{
		{NumberPrefix: "30693", HomeRN: "888000"},
		{NumberPrefix: "30694", HomeRN: "888000"},
	})
	require.NoError(t, err)
	return NewComparator(table, domain.DefaultCarrierRegistry(), testLogger())
}

func TestComparator_InboundCompliant(t *testing.T) {
	c := testComparator(t)
	record := testRecord(t, domain.DirectionInbound, "6930000000")

	verdict := c.Audit(context.Background(), record, "888000", "http://n1", nil)

	assert.Equal(t, domain.ClassificationCompliant, verdict.Classification)
	require.NotNil(t, verdict.DirectionMatch)
	assert.True(t, *verdict.DirectionMatch)
	assert.Equal(t, "http://n1", verdict.SourceNodeURL)
}

func TestComparator_InboundMisrouted(t *testing.T) {
	c := testComparator(t)
	record := testRecord(t, domain.DirectionInbound, "6930000000")

	verdict := c.Audit(context.Background(), record, "101022", "http://n1", nil)

	assert.Equal(t, domain.ClassificationMisrouted, verdict.Classification)
	require.NotNil(t, verdict.DirectionMatch)
	assert.False(t, *verdict.DirectionMatch)
	assert.NotEmpty(t, verdict.Reason)
}

func TestComparator_OutboundComplementaryRule(t *testing.T) {
	c := testComparator(t)
	record := testRecord(t, domain.DirectionOutbound, "6940000000")

	// Outbound must resolve away from the home RN.
	away := c.Audit(context.Background(), record, "101022", "http://n1", nil)
	assert.Equal(t, domain.ClassificationCompliant, away.Classification)

	home := c.Audit(context.Background(), record, "888000", "http://n1", nil)
	assert.Equal(t, domain.ClassificationMisrouted, home.Classification)
}

func TestComparator_InvalidRecord(t *testing.T) {
	c := testComparator(t)
	record := domain.NewNumberRecord(domain.DirectionInbound, "garbage", domain.DefaultMSISDNOptions())
	require.Error(t, record.SanitizeErr)

	verdict := c.Audit(context.Background(), record, "", "", nil)

	assert.Equal(t, domain.ClassificationInvalid, verdict.Classification)
	assert.Nil(t, verdict.DirectionMatch)
	assert.NotEmpty(t, verdict.Reason)
}

func TestComparator_Unreachable(t *testing.T) {
	c := testComparator(t)
	record := testRecord(t, domain.DirectionInbound, "6930000000")

	verdict := c.Audit(context.Background(), record, "", "", []domain.QueryAttempt{
		{NodeURL: "http://n1", Outcome: domain.OutcomeTimeout},
	})

	assert.Equal(t, domain.ClassificationUnreachable, verdict.Classification)
	assert.Nil(t, verdict.DirectionMatch)
	assert.Empty(t, verdict.ResolvedRN)
	assert.Len(t, verdict.Attempts, 1)
}

func TestComparator_RuleGapStaysVisible(t *testing.T) {
	c := testComparator(t)
	// 3021... fixed-line range has no rule.
	record := domain.NumberRecord{
		Direction:       domain.DirectionInbound,
		RawMSISDN:       "302101234567",
		SanitizedMSISDN: "302101234567",
	}

	verdict := c.Audit(context.Background(), record, "888000", "http://n1", nil)

	assert.Equal(t, domain.ClassificationRuleGap, verdict.Classification)
	assert.Nil(t, verdict.DirectionMatch)
	assert.NotEmpty(t, verdict.Reason)
}

func TestComparator_CarrierOnVerdict(t *testing.T) {
	c := testComparator(t)
	record := testRecord(t, domain.DirectionOutbound, "6930000000")

	verdict := c.Audit(context.Background(), record, "1010223", "http://n1", nil)
	assert.Equal(t, "Alpha_Telecom_Global", verdict.ResolvedCarrier)
}

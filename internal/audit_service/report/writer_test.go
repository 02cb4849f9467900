package report

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

func testWriter(dir string) *Writer {
	return NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleRun() ([]domain.AuditVerdict, domain.AuditSummary) {
	match := true
	verdicts := []domain.AuditVerdict{
		{
			Record: domain.NumberRecord{
				Direction:       domain.DirectionInbound,
				RawMSISDN:       "+306930000000",
				SanitizedMSISDN: "306930000000",
			},
			ResolvedRN:      "888000",
			ResolvedCarrier: "unregistered_prefix_8880",
			SourceNodeURL:   "http://n1",
			DirectionMatch:  &match,
			Classification:  domain.ClassificationCompliant,
			Attempts:        []domain.QueryAttempt{{NodeURL: "http://n1", Outcome: domain.OutcomeSuccess}},
			AuditedAt:       time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			Record: domain.NumberRecord{
				Direction: domain.DirectionOutbound,
				RawMSISDN: "bogus",
			},
			Classification: domain.ClassificationInvalid,
			Reason:         "invalid subscriber number",
			AuditedAt:      time.Date(2024, 3, 1, 10, 30, 1, 0, time.UTC),
		},
	}
	summary := domain.AuditSummary{
		TotalRecords: 2,
		PerClassification: map[domain.Classification]int{
			domain.ClassificationCompliant: 1,
			domain.ClassificationInvalid:   1,
		},
		PerNode: map[string]domain.NodeCounters{
			"http://n1": {Attempts: 1, Successes: 1, LastStatus: domain.NodeStatusHealthy},
		},
		PerCarrier: map[string]int{"unregistered_prefix_8880": 1},
	}
	return verdicts, summary
}

func TestWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()
	verdicts, summary := sampleRun()

	csvPath, txtPath, err := testWriter(dir).WriteAll(
		filepath.Join(dir, "numbers.csv"), "20240301_103000", verdicts, summary)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(csvPath, "numbers_DATA_20240301_103000.csv"))
	assert.True(t, strings.HasSuffix(txtPath, "numbers_REPORT_20240301_103000.txt"))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 verdicts
	assert.Equal(t, "Classification", rows[0][1])
	assert.Equal(t, "compliant", rows[1][1])
	assert.Equal(t, "invalid", rows[2][1])

	txt, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	content := string(txt)
	assert.Contains(t, content, "Total: 2")
	assert.Contains(t, content, "Success rate: 50.0%")
	assert.Contains(t, content, "http://n1: healthy")
	assert.Contains(t, content, "unregistered_prefix_8880: 1")
}

func TestWriter_DefaultsToSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	verdicts, summary := sampleRun()

	csvPath, _, err := testWriter("").WriteAll(
		filepath.Join(dir, "input.csv"), "run1", verdicts, summary)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(csvPath))
}

package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Writer produces the two run artifacts next to the audit source file:
// a machine-readable CSV of all verdicts and a human-readable TXT summary.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter creates a report writer. outputDir may be empty, in which case
// reports land next to the source file.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger.With("component", "report_writer")}
}

// WriteAll generates both artifacts and returns their paths.
func (w *Writer) WriteAll(sourcePath, runID string, verdicts []domain.AuditVerdict, summary domain.AuditSummary) (csvPath, txtPath string, err error) {
	dir := w.outputDir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", "", fmt.Errorf("creating report directory %s: %w", dir, err)
	}

	base := filepath.Base(sourcePath)
	base = base[:len(base)-len(filepath.Ext(base))]

	csvPath = filepath.Join(dir, fmt.Sprintf("%s_DATA_%s.csv", base, runID))
	if err := w.writeCSV(csvPath, verdicts); err != nil {
		return "", "", err
	}
	txtPath = filepath.Join(dir, fmt.Sprintf("%s_REPORT_%s.txt", base, runID))
	if err := w.writeSummary(txtPath, runID, summary); err != nil {
		return "", "", err
	}

	w.logger.Info("Reports generated", "csv", csvPath, "txt", txtPath)
	return csvPath, txtPath, nil
}

func (w *Writer) writeCSV(path string, verdicts []domain.AuditVerdict) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating verdict CSV %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	headers := []string{
		"AuditedAt", "Classification", "Direction", "RawMSISDN", "SanitizedMSISDN",
		"ResolvedRN", "Carrier", "SourceNode", "Attempts", "Reason",
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, v := range verdicts {
		row := []string{
			v.AuditedAt.Format("15:04:05"),
			string(v.Classification),
			string(v.Record.Direction),
			v.Record.RawMSISDN,
			v.Record.SanitizedMSISDN,
			v.ResolvedRN,
			v.ResolvedCarrier,
			v.SourceNodeURL,
			strconv.Itoa(len(v.Attempts)),
			v.Reason,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeSummary(path, runID string, summary domain.AuditSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary report %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "ROUTING AUDIT SUMMARY - %s\n", runID)
	fmt.Fprintf(f, "Status: COMPLETE | Total: %d | Success rate: %.1f%%\n",
		summary.TotalRecords, summary.SuccessRate()*100)
	fmt.Fprintln(f, "----------------------------------------")

	fmt.Fprintln(f, "Classification breakdown:")
	for _, c := range []domain.Classification{
		domain.ClassificationCompliant,
		domain.ClassificationMisrouted,
		domain.ClassificationRuleGap,
		domain.ClassificationUnreachable,
		domain.ClassificationInvalid,
	} {
		fmt.Fprintf(f, "  %s: %d\n", c, summary.PerClassification[c])
	}

	fmt.Fprintln(f, "----------------------------------------")
	fmt.Fprintln(f, "Cluster health:")
	for _, url := range sortedKeys(summary.PerNode) {
		counters := summary.PerNode[url]
		fmt.Fprintf(f, "  %s: %s (attempts=%d success=%d timeout=%d http=%d parse=%d)\n",
			url, counters.LastStatus, counters.Attempts, counters.Successes,
			counters.Timeouts, counters.HTTPErrors, counters.ParseErrors)
	}

	fmt.Fprintln(f, "----------------------------------------")
	fmt.Fprintln(f, "Carrier distribution:")
	for _, carrier := range sortedKeys(summary.PerCarrier) {
		fmt.Fprintf(f, "  %s: %d\n", carrier, summary.PerCarrier[carrier])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

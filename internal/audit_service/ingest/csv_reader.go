package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Reader ingests semicolon-delimited audit source files. Column 0 carries the
// traffic direction label; the MSISDN is the first remaining segment that
// normalizes successfully (upstream exports shuffle extra columns around).
type Reader struct {
	opts   domain.MSISDNOptions
	logger *slog.Logger
}

// NewReader builds an ingestion reader with the given normalization options.
func NewReader(opts domain.MSISDNOptions, logger *slog.Logger) *Reader {
	return &Reader{opts: opts, logger: logger.With("component", "csv_ingest")}
}

// ReadFile opens and ingests a source file. An unreadable file is fatal to
// the run, unlike per-record problems.
func (r *Reader) ReadFile(path string) ([]domain.NumberRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audit source %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read ingests all rows from the stream. Rows without a recognizable
// direction label are skipped with a log line; rows whose MSISDN cannot be
// normalized still become records (they audit as Invalid downstream).
func (r *Reader) Read(src io.Reader) ([]domain.NumberRecord, error) {
	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []domain.NumberRecord
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading audit source at line %d: %w", line+1, err)
		}
		line++

		if len(row) < 2 {
			r.logger.Warn("Skipping short row", "line", line, "columns", len(row))
			continue
		}

		direction, ok := domain.ParseDirection(row[0])
		if !ok {
			r.logger.Warn("Skipping row without direction label", "line", line, "label", strings.TrimSpace(row[0]))
			continue
		}

		records = append(records, r.recordFromRow(direction, row[1:]))
	}

	r.logger.Info("Ingestion complete", "rows", line, "records", len(records))
	return records, nil
}

// recordFromRow picks the first segment that normalizes as an MSISDN. When
// none does, the first non-empty segment is kept so the row surfaces as an
// Invalid verdict instead of vanishing.
func (r *Reader) recordFromRow(direction domain.Direction, segments []string) domain.NumberRecord {
	fallback := ""
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if fallback == "" {
			fallback = segment
		}
		rec := domain.NewNumberRecord(direction, segment, r.opts)
		if rec.SanitizeErr == nil {
			return rec
		}
	}
	return domain.NewNumberRecord(direction, fallback, r.opts)
}

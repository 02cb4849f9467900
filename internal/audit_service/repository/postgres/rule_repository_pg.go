package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs; it keeps the
// repository testable with pgxmock.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgRuleRepository loads the routing rule table from PostgreSQL. Used when
// the audit shares its rule source with the provisioning system instead of a
// local rules file.
type PgRuleRepository struct {
	db     PgxQuerier
	logger *slog.Logger
}

// NewPgRuleRepository creates a PostgreSQL-backed rule repository.
func NewPgRuleRepository(db PgxQuerier, logger *slog.Logger) domain.RuleRepository {
	return &PgRuleRepository{db: db, logger: logger.With("component", "rule_repository_pg")}
}

// LoadRules fetches all active routing rules. Rows with malformed fields are
// skipped with a log line rather than failing the whole load.
func (r *PgRuleRepository) LoadRules(ctx context.Context) ([]domain.RoutingRule, error) {
	query := `
		SELECT number_prefix, home_rn, COALESCE(description, '')
		FROM routing_rules
		WHERE is_active = TRUE
		ORDER BY length(number_prefix) DESC, number_prefix ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying routing rules", "error", err)
		return nil, fmt.Errorf("querying routing rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.RoutingRule
	for rows.Next() {
		var rule domain.RoutingRule
		if err := rows.Scan(&rule.NumberPrefix, &rule.HomeRN, &rule.Description); err != nil {
			r.logger.ErrorContext(ctx, "Error scanning routing rule row", "error", err)
			continue
		}
		if rule.NumberPrefix == "" || rule.HomeRN == "" {
			r.logger.WarnContext(ctx, "Skipping incomplete routing rule row",
				"number_prefix", rule.NumberPrefix, "home_rn", rule.HomeRN)
			continue
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routing rules: %w", err)
	}

	r.logger.InfoContext(ctx, "Loaded routing rules from postgres", "count", len(rules))
	return rules, nil
}

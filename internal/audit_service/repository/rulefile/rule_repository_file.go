package rulefile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// FileRuleRepository loads the routing rule table from a yaml file:
//
//	rules:
//	  - number_prefix: "30693"
//	    home_rn: "888000"
//	    description: "home mobile range"
type FileRuleRepository struct {
	path   string
	logger *slog.Logger
}

// NewFileRuleRepository creates a file-backed rule repository.
func NewFileRuleRepository(path string, logger *slog.Logger) domain.RuleRepository {
	return &FileRuleRepository{path: path, logger: logger.With("component", "rule_repository_file")}
}

// LoadRules reads and validates the rule table. Any malformed entry fails the
// load: a half-loaded rule table would turn coverage gaps into silent audits.
func (r *FileRuleRepository) LoadRules(ctx context.Context) ([]domain.RoutingRule, error) {
	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", r.path, err)
	}

	var doc struct {
		Rules []domain.RoutingRule `mapstructure:"rules"`
	}
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("unmarshalling rules file %s: %w", r.path, err)
	}

	validate := validator.New()
	for i, rule := range doc.Rules {
		if err := validate.Struct(rule); err != nil {
			return nil, fmt.Errorf("rules file %s entry %d invalid: %w", r.path, i, err)
		}
	}

	r.logger.InfoContext(ctx, "Loaded routing rules from file", "path", r.path, "count", len(doc.Rules))
	return doc.Rules, nil
}

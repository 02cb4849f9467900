package domain

import (
	"context"
	"sort"
	"strings"
)

// RoutingRule maps a number-range prefix (on the canonical MSISDN) to the
// routing number pattern the home network is expected to return for it.
// HomeRN is either an exact RN or a pattern with a trailing "*" wildcard,
// e.g. "888000" or "8880*".
type RoutingRule struct {
	NumberPrefix string `mapstructure:"number_prefix" validate:"required,numeric"`
	HomeRN       string `mapstructure:"home_rn" validate:"required"`
	Description  string `mapstructure:"description"`
}

// MatchesRN reports whether a resolved routing number satisfies the rule's
// home pattern.
func (r RoutingRule) MatchesRN(rn string) bool {
	if pattern, ok := strings.CutSuffix(r.HomeRN, "*"); ok {
		return strings.HasPrefix(rn, pattern)
	}
	return rn == r.HomeRN
}

// RuleTable holds direction rules ordered longest-prefix-first so the most
// specific number range wins.
type RuleTable struct {
	rules []RoutingRule
}

// NewRuleTable builds a table from loaded rules. An empty table is a startup
// error: coverage gaps must surface as rule-gap verdicts, never as a silently
// permissive run.
func NewRuleTable(rules []RoutingRule) (*RuleTable, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	ordered := make([]RoutingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].NumberPrefix) > len(ordered[j].NumberPrefix)
	})
	return &RuleTable{rules: ordered}, nil
}

// Lookup returns the most specific rule covering the canonical MSISDN, or
// ErrRuleGap when no prefix matches.
func (t *RuleTable) Lookup(sanitizedMSISDN string) (RoutingRule, error) {
	for _, rule := range t.rules {
		if strings.HasPrefix(sanitizedMSISDN, rule.NumberPrefix) {
			return rule, nil
		}
	}
	return RoutingRule{}, ErrRuleGap
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int { return len(t.rules) }

// RuleRepository loads the routing rule table from its configured source.
type RuleRepository interface {
	LoadRules(ctx context.Context) ([]RoutingRule, error)
}

// Package extract pulls routing numbers out of heterogeneous node response
// bodies. Nodes in the cluster answer in plain text, JSON or XML depending on
// firmware generation, so extraction is an ordered list of independent
// matcher strategies, most specific first. Adding a response format means
// adding a Matcher; the failover logic never changes.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teleaudit/trat/internal/audit_service/domain"
)

// Matcher is one extraction strategy over a raw response body.
type Matcher interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string
	// TryExtract returns the matched routing token and true on success.
	TryExtract(body string) (string, bool)
}

// regexMatcher matches the first capture group of a compiled pattern.
type regexMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func (m *regexMatcher) Name() string { return m.name }

func (m *regexMatcher) TryExtract(body string) (string, bool) {
	groups := m.pattern.FindStringSubmatch(body)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// NewLabeledKeyMatcher matches key/value forms like "RoutingID: 1010223",
// `"routing_id": "1010-223"` and "routingNumber=1010223". Key casing and
// underscore placement vary between node firmwares.
func NewLabeledKeyMatcher() Matcher {
	return &regexMatcher{
		name:    "labeled_key",
		pattern: regexp.MustCompile(`(?i)routing[_ ]?(?:id|number|rn)"?\s*[:=]\s*"?([0-9][0-9 .\-]*)`),
	}
}

// NewXMLTagMatcher matches tag forms like <RoutingID>1010223</RoutingID>.
func NewXMLTagMatcher() Matcher {
	return &regexMatcher{
		name:    "xml_tag",
		pattern: regexp.MustCompile(`(?i)<routing[_ ]?(?:id|number|rn)>\s*([0-9][0-9 .\-]*)\s*<`),
	}
}

// NewBareRNMatcher matches the terse "RN: 1010223" form some legacy nodes emit.
func NewBareRNMatcher() Matcher {
	return &regexMatcher{
		name:    "bare_rn",
		pattern: regexp.MustCompile(`(?i)\brn"?\s*[:=]\s*"?([0-9][0-9 .\-]*)`),
	}
}

// Extractor applies its matchers in order and returns the first hit.
type Extractor struct {
	matchers []Matcher
}

// New builds an extractor over the given strategies, tried in order.
func New(matchers ...Matcher) *Extractor {
	return &Extractor{matchers: matchers}
}

// NewDefault covers every response format currently seen in the cluster.
func NewDefault() *Extractor {
	return New(NewLabeledKeyMatcher(), NewXMLTagMatcher(), NewBareRNMatcher())
}

// Extract returns the routing number found in the body, stripped to digits.
// Fails with domain.ErrParseFailed when no strategy matches.
func (e *Extractor) Extract(body string) (string, error) {
	for _, m := range e.matchers {
		token, ok := m.TryExtract(body)
		if !ok {
			continue
		}
		rn := digitsOnly(token)
		if rn == "" {
			continue
		}
		return rn, nil
	}
	return "", fmt.Errorf("%w (tried %d matchers)", domain.ErrParseFailed, len(e.matchers))
}

// digitsOnly drops embedded separators and trailing punctuation from a
// matched token.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package domain

import "errors"

var (
	// ErrInvalidNumber indicates a raw MSISDN that cannot be normalized.
	ErrInvalidNumber = errors.New("invalid subscriber number")
	// ErrParseFailed indicates a node response with no recognizable routing number.
	ErrParseFailed = errors.New("no routing number found in response")
	// ErrPoolExhausted indicates that every node in the pool was tried without success.
	ErrPoolExhausted = errors.New("node pool exhausted")
	// ErrEmptyNodePool indicates a startup configuration with no nodes; fatal to the run.
	ErrEmptyNodePool = errors.New("node pool is empty")
	// ErrNoRules indicates an empty routing rule table; fatal to the run.
	ErrNoRules = errors.New("routing rule table is empty")
	// ErrRuleGap indicates a number range not covered by any routing rule.
	ErrRuleGap = errors.New("no routing rule for number range")
)

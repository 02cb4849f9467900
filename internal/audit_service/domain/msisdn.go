package domain

import (
	"fmt"
	"strings"
)

// MSISDNOptions controls normalization of raw subscriber numbers into the
// canonical digits-only form with a country-code prefix.
type MSISDNOptions struct {
	// CountryCode is the canonical prefix, e.g. "30".
	CountryCode string
	// MobilePrefix is the national mobile convention, e.g. "69" for Greek mobiles.
	MobilePrefix string
	// SubscriberDigits is the length of the national subscriber number, e.g. 10.
	SubscriberDigits int
}

// DefaultMSISDNOptions matches the Greek numbering plan the audit runs against.
func DefaultMSISDNOptions() MSISDNOptions {
	return MSISDNOptions{CountryCode: "30", MobilePrefix: "69", SubscriberDigits: 10}
}

// SanitizeMSISDN normalizes a raw MSISDN string into canonical form:
// digits only, prefixed with the country code. It accepts surrounding quotes
// and whitespace, a leading "+" or "00" international prefix, a national
// trunk "0", and bare national mobile numbers (MobilePrefix convention).
// Sanitizing an already-canonical number is a no-op.
func SanitizeMSISDN(raw string, opts MSISDNOptions) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '`', ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, raw)

	switch {
	case strings.HasPrefix(cleaned, "+"):
		cleaned = cleaned[1:]
	case strings.HasPrefix(cleaned, "00"):
		cleaned = cleaned[2:]
	}

	if !isDigits(cleaned) {
		return "", fmt.Errorf("%w: %q is not numeric", ErrInvalidNumber, raw)
	}

	national := opts.SubscriberDigits
	switch {
	case strings.HasPrefix(cleaned, opts.CountryCode) && len(cleaned) >= len(opts.CountryCode)+national:
		// Already carries the country code.
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == national+1:
		// Trunk prefix form: 0 + national number.
		cleaned = opts.CountryCode + cleaned[1:]
	case strings.HasPrefix(cleaned, opts.MobilePrefix) && len(cleaned) == national:
		// Bare national mobile number.
		cleaned = opts.CountryCode + cleaned
	default:
		return "", fmt.Errorf("%w: %q does not match a supported format", ErrInvalidNumber, raw)
	}

	if len(cleaned) < len(opts.CountryCode)+national {
		return "", fmt.Errorf("%w: %q is too short", ErrInvalidNumber, raw)
	}
	return cleaned, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

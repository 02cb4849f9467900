package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Direction is the declared traffic direction of an audited number.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// ParseDirection normalizes the direction column of an ingested row.
// Rows carry free-form labels like "Inbound Porting"; matching is by substring,
// the way upstream exports label them.
func ParseDirection(raw string) (Direction, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, string(DirectionInbound)):
		return DirectionInbound, true
	case strings.Contains(s, string(DirectionOutbound)):
		return DirectionOutbound, true
	default:
		return "", false
	}
}

// NumberRecord is one audited phone number. SanitizedMSISDN is populated once
// at ingestion and never mutated afterwards; SanitizeErr records a failed
// normalization so the record still yields a verdict (Invalid) downstream.
type NumberRecord struct {
	ID              uuid.UUID
	Direction       Direction
	RawMSISDN       string
	SanitizedMSISDN string
	SanitizeErr     error
}

// NewNumberRecord builds a record and applies MSISDN normalization.
func NewNumberRecord(direction Direction, rawMSISDN string, opts MSISDNOptions) NumberRecord {
	rec := NumberRecord{
		ID:        uuid.New(),
		Direction: direction,
		RawMSISDN: rawMSISDN,
	}
	sanitized, err := SanitizeMSISDN(rawMSISDN, opts)
	if err != nil {
		rec.SanitizeErr = err
		return rec
	}
	rec.SanitizedMSISDN = sanitized
	return rec
}

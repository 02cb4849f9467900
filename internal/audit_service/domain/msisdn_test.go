package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeMSISDN_SupportedVariants(t *testing.T) {
	opts := DefaultMSISDNOptions()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical", "306930000000", "306930000000"},
		{"plus prefix", "+306930000000", "306930000000"},
		{"double zero prefix", "00306930000000", "306930000000"},
		{"bare national mobile", "6930000000", "306930000000"},
		{"trunk zero", "06930000000", "306930000000"},
		{"quoted", `"6930000000"`, "306930000000"},
		{"single quoted with spaces", " '6930000000' ", "306930000000"},
		{"plus with inner whitespace", "+30 693 0000000", "306930000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeMSISDN(tc.raw, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSanitizeMSISDN_Idempotent(t *testing.T) {
	opts := DefaultMSISDNOptions()

	once, err := SanitizeMSISDN("+306940000000", opts)
	require.NoError(t, err)
	twice, err := SanitizeMSISDN(once, opts)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSanitizeMSISDN_Invalid(t *testing.T) {
	opts := DefaultMSISDNOptions()

	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"letters", "69aBc00000"},
		{"too short", "6930"},
		{"wrong national prefix", "5530000000"},
		{"only punctuation", `"+"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SanitizeMSISDN(tc.raw, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidNumber)
		})
	}
}

func TestParseDirection(t *testing.T) {
	dir, ok := ParseDirection(" Inbound Porting ")
	assert.True(t, ok)
	assert.Equal(t, DirectionInbound, dir)

	dir, ok = ParseDirection("OUTBOUND")
	assert.True(t, ok)
	assert.Equal(t, DirectionOutbound, dir)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestNewNumberRecord_KeepsInvalidInput(t *testing.T) {
	rec := NewNumberRecord(DirectionInbound, "not-a-number", DefaultMSISDNOptions())
	assert.Error(t, rec.SanitizeErr)
	assert.Empty(t, rec.SanitizedMSISDN)
	assert.Equal(t, "not-a-number", rec.RawMSISDN)
}

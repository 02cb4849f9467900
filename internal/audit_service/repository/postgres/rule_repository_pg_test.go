package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPgRuleRepository_LoadRules(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	rows := pgxmock.NewRows([]string{"number_prefix", "home_rn", "description"}).
		AddRow("30693", "888000", "home mobile range").
		AddRow("3069", "8880*", "")
	mockPool.ExpectQuery("SELECT number_prefix, home_rn").WillReturnRows(rows)

	repo := NewPgRuleRepository(mockPool, testLogger())
	rules, err := repo.LoadRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "30693", rules[0].NumberPrefix)
	assert.Equal(t, "8880*", rules[1].HomeRN)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgRuleRepository_SkipsIncompleteRows(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	rows := pgxmock.NewRows([]string{"number_prefix", "home_rn", "description"}).
		AddRow("", "888000", "").
		AddRow("30693", "888000", "")
	mockPool.ExpectQuery("SELECT number_prefix, home_rn").WillReturnRows(rows)

	repo := NewPgRuleRepository(mockPool, testLogger())
	rules, err := repo.LoadRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "30693", rules[0].NumberPrefix)
}

func TestPgRuleRepository_QueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT number_prefix, home_rn").
		WillReturnError(errors.New("connection refused"))

	repo := NewPgRuleRepository(mockPool, testLogger())
	_, err = repo.LoadRules(context.Background())
	assert.Error(t, err)
}

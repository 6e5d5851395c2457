//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialfinder/internal/platform/config"
	"trialfinder/internal/platform/postgres"
	"trialfinder/pkg/testutil/containers"
)

func TestOpen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.GetManager().GetPostgres(t)

	db, err := postgres.Open(context.Background(), config.PostgresConfig{URL: pg.DSN, MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var one int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenRejectsUnreachable(t *testing.T) {
	_, err := postgres.Open(context.Background(), config.PostgresConfig{URL: "postgres://nobody@127.0.0.1:1/none?sslmode=disable"})
	assert.Error(t, err)
}

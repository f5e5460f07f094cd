package data

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolRejectsBadConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "not a connection string ::")
	assert.Error(t, err)
}

func TestMigrationsRoundTrip(t *testing.T) {
	if os.Getenv("TEST_DB_CONN") == "" {
		t.Skip("TEST_DB_CONN not set")
	}
	connString, err := ResetTestDb()
	require.NoError(t, err)
	// already current
	require.NoError(t, MigrateUp(connString))

	ctx := context.Background()
	pool, err := NewPool(ctx, connString)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM schedule_entries").Scan(&count))
	assert.Zero(t, count)
}

//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyStore_MissingRowReadsZero(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	count, err := env.Daily.Get(ctx, "cred-nonexistent", "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDailyStore_IncrementAccumulates(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, env.Daily.Increment(ctx, "cred-accum", "2026-01-02"))
	}

	count, err := env.Daily.Get(ctx, "cred-accum", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDailyStore_IndependentPerCredentialAndDay(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Daily.Increment(ctx, "cred-x", "2026-01-03"))
	require.NoError(t, env.Daily.Increment(ctx, "cred-y", "2026-01-03"))
	require.NoError(t, env.Daily.Increment(ctx, "cred-x", "2026-01-04"))

	count, err := env.Daily.Get(ctx, "cred-x", "2026-01-03")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = env.Daily.Get(ctx, "cred-y", "2026-01-03")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = env.Daily.Get(ctx, "cred-x", "2026-01-04")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDailyStore_ResetClearsRow(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Daily.Increment(ctx, "cred-reset", "2026-01-05"))
	require.NoError(t, env.Daily.Reset(ctx, "cred-reset", "2026-01-05"))

	count, err := env.Daily.Get(ctx, "cred-reset", "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Resetting an absent row is not an error.
	require.NoError(t, env.Daily.Reset(ctx, "cred-reset", "2026-01-05"))
}

package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyStore persists per-credential daily request counts in PostgreSQL.
// One row per (credential, date key); past days are kept, never expired.
type DailyStore struct {
	pool *pgxpool.Pool
}

// NewDailyStore creates a new DailyStore.
func NewDailyStore(pool *pgxpool.Pool) *DailyStore {
	return &DailyStore{pool: pool}
}

// Get returns the count recorded for the credential on the given date key.
// An unseen key reads as 0 without creating a row.
func (s *DailyStore) Get(ctx context.Context, credentialID, dateKey string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count FROM usage_daily WHERE credential_id = $1 AND day = $2`,
		credentialID, dateKey,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetching daily usage: %w", err)
	}
	return count, nil
}

// Increment adds one request to the credential's counter for the date key,
// creating the row on first use for that day.
func (s *DailyStore) Increment(ctx context.Context, credentialID, dateKey string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO usage_daily (credential_id, day, count, updated_at)
		 VALUES ($1, $2, 1, NOW())
		 ON CONFLICT (credential_id, day)
		 DO UPDATE SET count = usage_daily.count + 1, updated_at = NOW()`,
		credentialID, dateKey)
	if err != nil {
		return fmt.Errorf("incrementing daily usage: %w", err)
	}
	return nil
}

// Reset deletes the credential's row for the date key, returning the counter
// to zero. Used on credential rotation; other days' rows are untouched.
func (s *DailyStore) Reset(ctx context.Context, credentialID, dateKey string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM usage_daily WHERE credential_id = $1 AND day = $2`,
		credentialID, dateKey)
	if err != nil {
		return fmt.Errorf("resetting daily usage: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// activityResolution bounds how often last_active_at is rewritten per user.
const activityResolution = time.Minute

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) TouchActivity(ctx context.Context, userID int64, at time.Time) error {
	if userID <= 0 || r.pool == nil {
		return nil
	}

	at = at.UTC()
	if _, err := r.pool.Exec(ctx, `
UPDATE accounts
SET last_active_at = $2
WHERE id = $1
	AND (last_active_at IS NULL OR last_active_at < $3)
`, userID, at, at.Add(-activityResolution)); err != nil {
		return wrapErr("touch account activity", err)
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

type ActiveMatchRecord struct {
	ID          int64
	OtherUserID int64
	FirstName   string
	LastName    string
	Bio         string
	AvatarKey   string
	CreatedAt   time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// LockPair takes a transaction-scoped advisory lock on the unordered pair.
// Two likes between the same users queue here, so the second one always
// sees the first one's judgment.
func (r *MatchRepo) LockPair(ctx context.Context, tx pgx.Tx, lowID, highID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if lowID <= 0 || highID <= 0 || lowID >= highID {
		return fmt.Errorf("invalid match pair")
	}

	if _, err := tx.Exec(ctx, `
SELECT pg_advisory_xact_lock(hashtextextended($1::bigint::text || ':' || $2::bigint::text, 0))
`, lowID, highID); err != nil {
		return wrapErr("lock match pair", err)
	}

	return nil
}

// LatestForPair returns the newest match row for the pair, active or not.
func (r *MatchRepo) LatestForPair(ctx context.Context, tx pgx.Tx, lowID, highID int64) (model.Match, bool, error) {
	if tx == nil {
		return model.Match{}, false, fmt.Errorf("transaction is required")
	}

	m, err := scanMatch(tx.QueryRow(ctx, `
SELECT id, user_low_id, user_high_id, active, created_at, unmatched_at, unmatched_by
FROM matches
WHERE user_low_id = $1 AND user_high_id = $2
ORDER BY active DESC, created_at DESC, id DESC
LIMIT 1
`, lowID, highID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, false, nil
		}
		return model.Match{}, false, wrapErr("lookup match pair", err)
	}

	return m, true, nil
}

// Create inserts an active match. errs.ErrConflict is returned when an
// active row for the pair already exists.
func (r *MatchRepo) Create(ctx context.Context, tx pgx.Tx, lowID, highID int64, at time.Time) (model.Match, error) {
	if tx == nil {
		return model.Match{}, fmt.Errorf("transaction is required")
	}
	if lowID <= 0 || highID <= 0 || lowID >= highID {
		return model.Match{}, fmt.Errorf("invalid match pair")
	}

	m, err := scanMatch(tx.QueryRow(ctx, `
INSERT INTO matches (
	user_low_id,
	user_high_id,
	active,
	created_at
) VALUES ($1, $2, TRUE, $3)
ON CONFLICT (user_low_id, user_high_id) WHERE active DO NOTHING
RETURNING id, user_low_id, user_high_id, active, created_at, unmatched_at, unmatched_by
`, lowID, highID, at.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, errs.ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return model.Match{}, fmt.Errorf("create match: %w", errs.ErrConflict)
		}
		return model.Match{}, wrapErr("create match", err)
	}

	return m, nil
}

func (r *MatchRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, matchID int64) (model.Match, error) {
	if tx == nil {
		return model.Match{}, fmt.Errorf("transaction is required")
	}
	if matchID <= 0 {
		return model.Match{}, errs.ErrNotFound
	}

	m, err := scanMatch(tx.QueryRow(ctx, `
SELECT id, user_low_id, user_high_id, active, created_at, unmatched_at, unmatched_by
FROM matches
WHERE id = $1
FOR UPDATE
`, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, errs.ErrNotFound
		}
		return model.Match{}, wrapErr("get match", err)
	}

	return m, nil
}

func (r *MatchRepo) Deactivate(ctx context.Context, tx pgx.Tx, matchID, byUserID int64, at time.Time) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE matches
SET active = FALSE,
	unmatched_at = $2,
	unmatched_by = $3
WHERE id = $1 AND active
`, matchID, at.UTC(), byUserID); err != nil {
		return wrapErr("deactivate match", err)
	}

	return nil
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64) ([]ActiveMatchRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil, ErrPoolUnavailable
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	p.user_id,
	p.first_name,
	p.last_name,
	p.bio,
	p.avatar_key,
	m.created_at
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user_low_id = $1 THEN m.user_high_id ELSE m.user_low_id END
WHERE
	(m.user_low_id = $1 OR m.user_high_id = $1)
	AND m.active
ORDER BY m.created_at DESC, m.id DESC
`, userID)
	if err != nil {
		return nil, wrapErr("list active matches", err)
	}
	defer rows.Close()

	items := make([]ActiveMatchRecord, 0)
	for rows.Next() {
		var item ActiveMatchRecord
		if err := rows.Scan(
			&item.ID,
			&item.OtherUserID,
			&item.FirstName,
			&item.LastName,
			&item.Bio,
			&item.AvatarKey,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, wrapErr("iterate active matches", rows.Err())
	}

	return items, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	if err := row.Scan(
		&m.ID,
		&m.UserLowID,
		&m.UserHighID,
		&m.Active,
		&m.CreatedAt,
		&m.UnmatchedAt,
		&m.UnmatchedBy,
	); err != nil {
		return model.Match{}, err
	}
	return m, nil
}

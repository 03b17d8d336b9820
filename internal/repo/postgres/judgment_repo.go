package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/model"
)

type JudgmentRepo struct {
	pool *pgxpool.Pool
}

func NewJudgmentRepo(pool *pgxpool.Pool) *JudgmentRepo {
	return &JudgmentRepo{pool: pool}
}

// Upsert records judge's verdict on subject. A fresh row reports
// JudgmentCreated; overwriting an earlier verdict reports JudgmentReplaced.
func (r *JudgmentRepo) Upsert(ctx context.Context, tx pgx.Tx, j model.Judgment) (enums.JudgmentOutcome, error) {
	if j.JudgeID <= 0 || j.SubjectID <= 0 {
		return "", fmt.Errorf("invalid judgment payload")
	}
	if tx == nil {
		return "", fmt.Errorf("transaction is required")
	}

	var inserted bool
	err := tx.QueryRow(ctx, `
INSERT INTO interest_judgments (
	judge_id,
	subject_id,
	liked,
	judged_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (judge_id, subject_id) DO UPDATE SET
	liked = EXCLUDED.liked,
	judged_at = EXCLUDED.judged_at
RETURNING (xmax = 0)
`, j.JudgeID, j.SubjectID, j.Liked, j.JudgedAt.UTC()).Scan(&inserted)
	if err != nil {
		return "", wrapErr("upsert judgment", err)
	}

	if inserted {
		return enums.JudgmentCreated, nil
	}
	return enums.JudgmentReplaced, nil
}

// LikedAt reports whether judge currently likes subject and when that
// judgment was made.
func (r *JudgmentRepo) LikedAt(ctx context.Context, tx pgx.Tx, judgeID, subjectID int64) (time.Time, bool, error) {
	if judgeID <= 0 || subjectID <= 0 {
		return time.Time{}, false, fmt.Errorf("invalid judgment lookup payload")
	}
	if tx == nil {
		return time.Time{}, false, fmt.Errorf("transaction is required")
	}

	var judgedAt time.Time
	err := tx.QueryRow(ctx, `
SELECT judged_at
FROM interest_judgments
WHERE judge_id = $1 AND subject_id = $2 AND liked
LIMIT 1
`, judgeID, subjectID).Scan(&judgedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, wrapErr("lookup reciprocal like", err)
	}

	return judgedAt.UTC(), true, nil
}

func (r *JudgmentRepo) StatsForJudge(ctx context.Context, judgeID int64, since time.Time) (model.SwipeStats, error) {
	if judgeID <= 0 {
		return model.SwipeStats{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.SwipeStats{}, ErrPoolUnavailable
	}

	var stats model.SwipeStats
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*)::int,
	COUNT(*) FILTER (WHERE liked)::int,
	COUNT(*) FILTER (WHERE NOT liked)::int
FROM interest_judgments
WHERE judge_id = $1 AND judged_at >= $2
`, judgeID, since.UTC()).Scan(&stats.Total, &stats.Likes, &stats.Passes)
	if err != nil {
		return model.SwipeStats{}, wrapErr("swipe stats", err)
	}

	return stats, nil
}

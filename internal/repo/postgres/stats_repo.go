package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/model"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// EngineStats counts matches and messages over all time and judgments since
// the given instant.
func (r *StatsRepo) EngineStats(ctx context.Context, since time.Time) (model.EngineStats, error) {
	if r.pool == nil {
		return model.EngineStats{}, ErrPoolUnavailable
	}

	var stats model.EngineStats
	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM matches),
	(SELECT COUNT(*) FROM matches WHERE active),
	(SELECT COUNT(*) FROM interest_judgments WHERE judged_at >= $1),
	(SELECT COUNT(*) FROM interest_judgments WHERE judged_at >= $1 AND liked),
	(SELECT COUNT(*) FROM messages)
`, since.UTC()).Scan(
		&stats.TotalMatches,
		&stats.ActiveMatches,
		&stats.Judgments,
		&stats.Likes,
		&stats.Messages,
	)
	if err != nil {
		return model.EngineStats{}, wrapErr("engine stats", err)
	}

	if stats.Judgments > 0 {
		stats.LikeRate = float64(stats.Likes) / float64(stats.Judgments)
	}
	return stats, nil
}

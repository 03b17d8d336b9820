package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/model"
)

// MessageRepo is the read side of the conversation store.
type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) LatestForMatch(ctx context.Context, matchID int64) (model.MessagePreview, bool, error) {
	if matchID <= 0 {
		return model.MessagePreview{}, false, fmt.Errorf("invalid match id")
	}
	if r.pool == nil {
		return model.MessagePreview{}, false, ErrPoolUnavailable
	}

	var preview model.MessagePreview
	err := r.pool.QueryRow(ctx, `
SELECT body, sent_at
FROM messages
WHERE match_id = $1
ORDER BY sent_at DESC, id DESC
LIMIT 1
`, matchID).Scan(&preview.Text, &preview.SentAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MessagePreview{}, false, nil
		}
		return model.MessagePreview{}, false, wrapErr("latest message", err)
	}

	return preview, true, nil
}

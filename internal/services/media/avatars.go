package media

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Avatars turns stored avatar keys into URLs a client can load.
type Avatars struct {
	storage       Presigner
	ttl           time.Duration
	defaultAvatar string
	logger        *zap.Logger
}

func NewAvatars(storage Presigner, ttl time.Duration, defaultAvatar string, logger *zap.Logger) *Avatars {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Avatars{
		storage:       storage,
		ttl:           ttl,
		defaultAvatar: defaultAvatar,
		logger:        logger,
	}
}

// URL never fails: a missing key or a signing error yields the default avatar.
func (a *Avatars) URL(ctx context.Context, key string) string {
	key = strings.TrimSpace(key)
	if key == "" || a.storage == nil {
		return a.defaultAvatar
	}

	signed, err := a.storage.PresignGet(ctx, key, a.ttl)
	if err != nil {
		a.logger.Warn("presign avatar failed", zap.String("key", key), zap.Error(err))
		return a.defaultAvatar
	}
	return signed
}

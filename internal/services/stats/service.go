package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bokk3/dating-app/internal/domain/model"
)

const defaultWindowDays = 30

var ErrValidation = errors.New("validation error")

type Store interface {
	EngineStats(ctx context.Context, since time.Time) (model.EngineStats, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Engine reports match totals and judgment activity over the trailing days.
func (s *Service) Engine(ctx context.Context, days int) (model.EngineStats, error) {
	if days < 0 {
		return model.EngineStats{}, fmt.Errorf("days must not be negative: %w", ErrValidation)
	}
	if days == 0 {
		days = defaultWindowDays
	}
	if s.store == nil {
		return model.EngineStats{}, fmt.Errorf("stats store is nil")
	}

	out, err := s.store.EngineStats(ctx, s.now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return model.EngineStats{}, err
	}
	out.WindowDays = days
	return out, nil
}

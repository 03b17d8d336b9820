package swipes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
	"github.com/bokk3/dating-app/internal/infra/metrics"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
)

const maxStatsDays = 365

type Transactor interface {
	WithTx(ctx context.Context, fn pgrepo.TxFunc) error
}

type ProfileLookup interface {
	Exists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error)
}

type JudgmentStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, j model.Judgment) (enums.JudgmentOutcome, error)
	StatsForJudge(ctx context.Context, judgeID int64, since time.Time) (model.SwipeStats, error)
}

type Matcher interface {
	ProcessLikeTx(ctx context.Context, tx pgx.Tx, userA, userB int64) (bool, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	StatsDefaultDays int
}

type SwipeResult struct {
	Outcome enums.JudgmentOutcome
	Matched bool
}

type Service struct {
	tx          Transactor
	profiles    ProfileLookup
	judgments   JudgmentStore
	matcher     Matcher
	rateLimiter RateLimiter
	logger      *zap.Logger
	cfg         Config
	now         func() time.Time
}

type Dependencies struct {
	Tx          Transactor
	Profiles    ProfileLookup
	Judgments   JudgmentStore
	Matcher     Matcher
	RateLimiter RateLimiter
	Logger      *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.StatsDefaultDays <= 0 {
		cfg.StatsDefaultDays = 30
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		tx:          deps.Tx,
		profiles:    deps.Profiles,
		judgments:   deps.Judgments,
		matcher:     deps.Matcher,
		rateLimiter: deps.RateLimiter,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// RecordJudgment stores the judge's verdict on subject in its own transaction.
func (s *Service) RecordJudgment(ctx context.Context, judgeID, subjectID int64, liked bool) (enums.JudgmentOutcome, error) {
	if s.tx == nil {
		return "", fmt.Errorf("transactor is nil")
	}

	var outcome enums.JudgmentOutcome
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		var err error
		outcome, err = s.recordTx(txCtx, tx, judgeID, subjectID, liked)
		return err
	})
	if err != nil {
		return "", err
	}

	s.observe(liked, outcome)
	return outcome, nil
}

// Swipe records a judgment and, for likes, checks for a match in the same
// transaction.
func (s *Service) Swipe(ctx context.Context, judgeID, subjectID int64, liked bool) (SwipeResult, error) {
	if s.tx == nil {
		return SwipeResult{}, fmt.Errorf("transactor is nil")
	}
	if liked && s.matcher == nil {
		return SwipeResult{}, fmt.Errorf("matcher is nil")
	}
	if err := s.checkRate(ctx, judgeID); err != nil {
		return SwipeResult{}, err
	}

	var result SwipeResult
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		outcome, err := s.recordTx(txCtx, tx, judgeID, subjectID, liked)
		if err != nil {
			return err
		}
		result.Outcome = outcome

		if !liked {
			return nil
		}
		matched, err := s.matcher.ProcessLikeTx(txCtx, tx, judgeID, subjectID)
		if err != nil {
			return err
		}
		result.Matched = matched
		return nil
	})
	if err != nil {
		return SwipeResult{}, err
	}

	s.observe(liked, result.Outcome)
	return result, nil
}

// Stats summarizes the user's judgments over the trailing days. Zero days
// uses the configured default.
func (s *Service) Stats(ctx context.Context, userID int64, days int) (model.SwipeStats, error) {
	if userID <= 0 {
		return model.SwipeStats{}, ErrValidation
	}
	if days < 0 || days > maxStatsDays {
		return model.SwipeStats{}, fmt.Errorf("days must be within 0-%d: %w", maxStatsDays, ErrValidation)
	}
	if days == 0 {
		days = s.cfg.StatsDefaultDays
	}
	if s.judgments == nil {
		return model.SwipeStats{}, fmt.Errorf("judgment store is nil")
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	stats, err := s.judgments.StatsForJudge(ctx, userID, since)
	if err != nil {
		return model.SwipeStats{}, err
	}
	stats.Days = days
	return stats, nil
}

func (s *Service) recordTx(ctx context.Context, tx pgx.Tx, judgeID, subjectID int64, liked bool) (enums.JudgmentOutcome, error) {
	if s.profiles == nil || s.judgments == nil {
		return "", fmt.Errorf("judgment dependencies are not configured")
	}

	judgeExists, err := s.profiles.Exists(ctx, tx, judgeID)
	if err != nil {
		return "", err
	}
	if !judgeExists {
		return "", errs.ErrNoProfile
	}
	if subjectID == judgeID {
		return "", errs.ErrInvalidSubject
	}
	subjectExists, err := s.profiles.Exists(ctx, tx, subjectID)
	if err != nil {
		return "", err
	}
	if !subjectExists {
		return "", errs.ErrInvalidSubject
	}

	return s.judgments.Upsert(ctx, tx, model.Judgment{
		JudgeID:   judgeID,
		SubjectID: subjectID,
		Liked:     liked,
		JudgedAt:  s.now().UTC(),
	})
}

// checkRate fails open: a limiter outage must not block swiping.
func (s *Service) checkRate(ctx context.Context, userID int64) error {
	if s.rateLimiter == nil || userID <= 0 {
		return nil
	}

	retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
	if err != nil {
		s.logger.Warn("swipe rate limiter unavailable", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	if !allowed {
		metrics.RateLimitedTotal.Inc()
		return TooFastError{RetryAfterSec: retryAfter}
	}
	return nil
}

func (s *Service) observe(liked bool, outcome enums.JudgmentOutcome) {
	metrics.SwipesTotal.WithLabelValues(strconv.FormatBool(liked), string(outcome)).Inc()
}

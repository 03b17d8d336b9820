package matches

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
	"github.com/bokk3/dating-app/internal/domain/rules"
	"github.com/bokk3/dating-app/internal/infra/metrics"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
)

type Transactor interface {
	WithTx(ctx context.Context, fn pgrepo.TxFunc) error
}

type MatchStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, lowID, highID int64) error
	LatestForPair(ctx context.Context, tx pgx.Tx, lowID, highID int64) (model.Match, bool, error)
	Create(ctx context.Context, tx pgx.Tx, lowID, highID int64, at time.Time) (model.Match, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, matchID int64) (model.Match, error)
	Deactivate(ctx context.Context, tx pgx.Tx, matchID, byUserID int64, at time.Time) error
	ListActiveForUser(ctx context.Context, userID int64) ([]pgrepo.ActiveMatchRecord, error)
}

type LikeLookup interface {
	LikedAt(ctx context.Context, tx pgx.Tx, judgeID, subjectID int64) (time.Time, bool, error)
}

type MessageStore interface {
	LatestForMatch(ctx context.Context, matchID int64) (model.MessagePreview, bool, error)
}

type AvatarResolver interface {
	URL(ctx context.Context, key string) string
}

type Config struct {
	LookupParallelism int
}

type Service struct {
	tx       Transactor
	matches  MatchStore
	likes    LikeLookup
	messages MessageStore
	avatars  AvatarResolver
	cfg      Config
	now      func() time.Time
}

type Dependencies struct {
	Tx       Transactor
	Matches  MatchStore
	Likes    LikeLookup
	Messages MessageStore
	Avatars  AvatarResolver
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.LookupParallelism <= 0 {
		cfg.LookupParallelism = 8
	}

	return &Service{
		tx:       deps.Tx,
		matches:  deps.Matches,
		likes:    deps.Likes,
		messages: deps.Messages,
		avatars:  deps.Avatars,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ProcessLike materializes a match when userA and userB like each other. It
// is safe to retry: an existing active match reports matched=true and no
// second row is written.
func (s *Service) ProcessLike(ctx context.Context, userA, userB int64) (bool, error) {
	if s.tx == nil {
		return false, fmt.Errorf("transactor is nil")
	}

	matched := false
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		var err error
		matched, err = s.ProcessLikeTx(txCtx, tx, userA, userB)
		return err
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}

// ProcessLikeTx runs the match check inside the caller's transaction.
func (s *Service) ProcessLikeTx(ctx context.Context, tx pgx.Tx, userA, userB int64) (bool, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return false, errs.ErrInvalidSubject
	}
	if s.matches == nil || s.likes == nil {
		return false, fmt.Errorf("match dependencies are not configured")
	}

	low, high := rules.CanonicalPair(userA, userB)
	if err := s.matches.LockPair(ctx, tx, low, high); err != nil {
		return false, err
	}

	var lastLikeAt time.Time
	for _, edge := range [][2]int64{{userA, userB}, {userB, userA}} {
		likedAt, liked, err := s.likes.LikedAt(ctx, tx, edge[0], edge[1])
		if err != nil {
			return false, err
		}
		if !liked {
			return false, nil
		}
		if likedAt.After(lastLikeAt) {
			lastLikeAt = likedAt
		}
	}

	latest, found, err := s.matches.LatestForPair(ctx, tx, low, high)
	if err != nil {
		return false, err
	}
	if found {
		if latest.Active {
			return true, nil
		}
		// After an unmatch only a like given later can pair them again.
		if latest.UnmatchedAt != nil && !lastLikeAt.After(*latest.UnmatchedAt) {
			return false, nil
		}
	}

	if _, err := s.matches.Create(ctx, tx, low, high, s.now().UTC()); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			metrics.MatchConflictsTotal.Inc()
			return true, nil
		}
		return false, err
	}

	metrics.MatchesCreatedTotal.Inc()
	return true, nil
}

// ListActiveMatches returns the user's active matches, most recent
// conversation first. Matches without messages follow, newest match first.
func (s *Service) ListActiveMatches(ctx context.Context, userID int64) ([]model.MatchFeedItem, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidSubject
	}
	if s.matches == nil || s.messages == nil {
		return nil, fmt.Errorf("match dependencies are not configured")
	}

	records, err := s.matches.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.MatchFeedItem, len(records))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LookupParallelism)
	for i, rec := range records {
		g.Go(func() error {
			item := model.MatchFeedItem{
				MatchID:     rec.ID,
				OtherUserID: rec.OtherUserID,
				Profile: model.Summary{
					FirstName: rec.FirstName,
					LastName:  rec.LastName,
					Bio:       rec.Bio,
					AvatarURL: s.avatarURL(gCtx, rec.AvatarKey),
				},
				MatchedAt: rec.CreatedAt,
			}

			preview, ok, err := s.messages.LatestForMatch(gCtx, rec.ID)
			if err != nil {
				return fmt.Errorf("latest message for match %d: %w", rec.ID, err)
			}
			if ok {
				item.LastMessage = &preview
			}

			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortFeed(items)
	return items, nil
}

// Unmatch deactivates a match on behalf of one of its participants.
// Unmatching an inactive match succeeds without changes.
func (s *Service) Unmatch(ctx context.Context, matchID, requesterID int64) error {
	if matchID <= 0 {
		return errs.ErrNotFound
	}
	if requesterID <= 0 {
		return errs.ErrUnauthorized
	}
	if s.tx == nil || s.matches == nil {
		return fmt.Errorf("match dependencies are not configured")
	}

	deactivated := false
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		m, err := s.matches.GetForUpdate(txCtx, tx, matchID)
		if err != nil {
			return err
		}
		if !m.HasParticipant(requesterID) {
			return errs.ErrUnauthorized
		}
		if !m.Active {
			return nil
		}
		if err := s.matches.Deactivate(txCtx, tx, matchID, requesterID, s.now().UTC()); err != nil {
			return err
		}
		deactivated = true
		return nil
	})
	if err != nil {
		return err
	}

	if deactivated {
		metrics.UnmatchesTotal.Inc()
	}
	return nil
}

func sortFeed(items []model.MatchFeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.LastMessage != nil && b.LastMessage == nil:
			return true
		case a.LastMessage == nil && b.LastMessage != nil:
			return false
		case a.LastMessage != nil && !a.LastMessage.SentAt.Equal(b.LastMessage.SentAt):
			return a.LastMessage.SentAt.After(b.LastMessage.SentAt)
		case a.LastMessage == nil && !a.MatchedAt.Equal(b.MatchedAt):
			return a.MatchedAt.After(b.MatchedAt)
		}
		return a.MatchID > b.MatchID
	})
}

func (s *Service) avatarURL(ctx context.Context, key string) string {
	if s.avatars == nil {
		return ""
	}
	return s.avatars.URL(ctx, key)
}

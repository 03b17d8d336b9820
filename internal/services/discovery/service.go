package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bokk3/dating-app/internal/domain/model"
	"github.com/bokk3/dating-app/internal/domain/rules"
	"github.com/bokk3/dating-app/internal/infra/metrics"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
)

// radiusSlackKM absorbs float drift between the SQL and Go distance formulas.
const radiusSlackKM = 1e-6

type ProfileStore interface {
	Get(ctx context.Context, tx pgx.Tx, userID int64) (model.Profile, error)
}

type CandidateStore interface {
	ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]pgrepo.CandidateRecord, error)
}

type AvatarResolver interface {
	URL(ctx context.Context, key string) string
}

type Config struct {
	AgeMin          int
	AgeMax          int
	DefaultRadiusKM int
	MaxRadiusKM     int
	DefaultLimit    int
	MaxLimit        int
}

type Service struct {
	profiles   ProfileStore
	candidates CandidateStore
	avatars    AvatarResolver
	cfg        Config
	now        func() time.Time
}

type Dependencies struct {
	Profiles   ProfileStore
	Candidates CandidateStore
	Avatars    AvatarResolver
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.AgeMin <= 0 {
		cfg.AgeMin = 18
	}
	if cfg.AgeMax < cfg.AgeMin {
		cfg.AgeMax = 100
	}
	if cfg.MaxRadiusKM <= 0 {
		cfg.MaxRadiusKM = 100
	}
	if cfg.DefaultRadiusKM <= 0 || cfg.DefaultRadiusKM > cfg.MaxRadiusKM {
		cfg.DefaultRadiusKM = min(25, cfg.MaxRadiusKM)
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(10, cfg.MaxLimit)
	}

	return &Service{
		profiles:   deps.Profiles,
		candidates: deps.Candidates,
		avatars:    deps.Avatars,
		cfg:        cfg,
		now:        time.Now,
	}
}

// GetFeed returns up to limit profiles the requester has not judged yet,
// most recently active first, then nearest, then by user id.
func (s *Service) GetFeed(ctx context.Context, requesterID int64, limit int) ([]model.Candidate, error) {
	if s.profiles == nil || s.candidates == nil {
		return nil, fmt.Errorf("discovery dependencies are not configured")
	}

	viewer, err := s.profiles.Get(ctx, nil, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	q := pgrepo.CandidateQuery{
		ViewerUserID:        viewer.UserID,
		AcceptedGenders:     rules.AcceptedGenders(viewer.InterestedIn),
		AcceptedPreferences: rules.AcceptedPreferences(viewer.Gender),
		AgeMin:              s.cfg.AgeMin,
		AgeMax:              s.cfg.AgeMax,
		Limit:               s.clampLimit(limit),
		Now:                 now,
	}
	radius := float64(s.radiusFor(viewer))
	if viewer.HasLocation() {
		q.Lat, q.Lon = viewer.Lat, viewer.Lon
		q.RadiusKM = radius
		q.Box = rules.BoundingBox(*viewer.Lat, *viewer.Lon, radius)
	}

	records, err := s.candidates.ListCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	items := make([]model.Candidate, 0, len(records))
	for _, rec := range records {
		if rec.UserID == viewer.UserID {
			continue
		}
		if !rules.MutuallyCompatible(viewer.Gender, viewer.InterestedIn, rec.Gender, rec.InterestedIn) {
			continue
		}
		if !rules.AgeWithin(rec.BirthDate, now, s.cfg.AgeMin, s.cfg.AgeMax) {
			continue
		}

		var distance *float64
		if viewer.HasLocation() {
			if rec.Lat == nil || rec.Lon == nil {
				continue
			}
			d := rules.HaversineKM(*viewer.Lat, *viewer.Lon, *rec.Lat, *rec.Lon)
			if d > radius+radiusSlackKM {
				continue
			}
			distance = &d
		}

		items = append(items, model.Candidate{
			UserID:        rec.UserID,
			FirstName:     rec.FirstName,
			LastName:      rec.LastName,
			Age:           rules.AgeAt(rec.BirthDate, now),
			Gender:        rec.Gender,
			Bio:           rec.Bio,
			LocationLabel: rec.LocationLabel,
			AvatarURL:     s.avatarURL(ctx, rec.AvatarKey),
			DistanceKM:    distance,
			LastActiveAt:  rec.LastActiveAt,
		})
	}
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}

	metrics.FeedCandidates.Observe(float64(len(items)))
	return items, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	return min(limit, s.cfg.MaxLimit)
}

func (s *Service) radiusFor(p model.Profile) int {
	if p.MaxDistanceKM <= 0 {
		return s.cfg.DefaultRadiusKM
	}
	return min(p.MaxDistanceKM, s.cfg.MaxRadiusKM)
}

func (s *Service) avatarURL(ctx context.Context, key string) string {
	if s.avatars == nil {
		return ""
	}
	return s.avatars.URL(ctx, key)
}

package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/model"
	"github.com/bokk3/dating-app/internal/domain/rules"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAgeRejected = errors.New("age rejected")
)

type ProfileStore interface {
	Get(ctx context.Context, tx pgx.Tx, userID int64) (model.Profile, error)
	Upsert(ctx context.Context, p model.Profile, at time.Time) (model.Profile, error)
}

type Config struct {
	AgeMin      int
	AgeMax      int
	MaxRadiusKM int
}

type Input struct {
	FirstName     string
	LastName      string
	BirthDate     time.Time
	Gender        string
	InterestedIn  string
	Bio           string
	LocationLabel string
	Lat           *float64
	Lon           *float64
	MaxDistanceKM int
	AvatarKey     string
}

type Service struct {
	store ProfileStore
	cfg   Config
	now   func() time.Time
}

func NewService(store ProfileStore, cfg Config) *Service {
	if cfg.AgeMin <= 0 {
		cfg.AgeMin = 18
	}
	if cfg.AgeMax < cfg.AgeMin {
		cfg.AgeMax = 100
	}
	if cfg.MaxRadiusKM <= 0 {
		cfg.MaxRadiusKM = 100
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	return s.store.Get(ctx, nil, userID)
}

// Upsert validates and stores the caller's profile. A zero MaxDistanceKM
// means the discovery default radius applies.
func (s *Service) Upsert(ctx context.Context, userID int64, in Input) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	now := s.now().UTC()
	profile, err := s.normalize(now, userID, in)
	if err != nil {
		return model.Profile{}, err
	}

	saved, err := s.store.Upsert(ctx, profile, now)
	if err != nil {
		return model.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}

func (s *Service) normalize(now time.Time, userID int64, in Input) (model.Profile, error) {
	out := model.Profile{
		UserID:        userID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Gender:        enums.Gender(strings.ToLower(strings.TrimSpace(in.Gender))),
		InterestedIn:  enums.Preference(strings.ToLower(strings.TrimSpace(in.InterestedIn))),
		Bio:           strings.TrimSpace(in.Bio),
		LocationLabel: strings.TrimSpace(in.LocationLabel),
		MaxDistanceKM: in.MaxDistanceKM,
		AvatarKey:     strings.TrimSpace(in.AvatarKey),
	}

	if out.FirstName == "" {
		return model.Profile{}, fmt.Errorf("first name is required: %w", ErrValidation)
	}
	if in.BirthDate.IsZero() {
		return model.Profile{}, fmt.Errorf("birth date is required: %w", ErrValidation)
	}
	out.BirthDate = time.Date(in.BirthDate.Year(), in.BirthDate.Month(), in.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if !rules.AgeWithin(out.BirthDate, now, s.cfg.AgeMin, s.cfg.AgeMax) {
		return model.Profile{}, ErrAgeRejected
	}
	if !out.Gender.Valid() {
		return model.Profile{}, fmt.Errorf("unsupported gender %q: %w", in.Gender, ErrValidation)
	}
	if !out.InterestedIn.Valid() {
		return model.Profile{}, fmt.Errorf("unsupported preference %q: %w", in.InterestedIn, ErrValidation)
	}

	if (in.Lat == nil) != (in.Lon == nil) {
		return model.Profile{}, fmt.Errorf("lat and lon must be set together: %w", ErrValidation)
	}
	if in.Lat != nil {
		if err := rules.ValidateCoordinates(*in.Lat, *in.Lon); err != nil {
			return model.Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		lat, lon := *in.Lat, *in.Lon
		out.Lat, out.Lon = &lat, &lon
	}

	if out.MaxDistanceKM < 0 || out.MaxDistanceKM > s.cfg.MaxRadiusKM {
		return model.Profile{}, fmt.Errorf("max distance must be within 0-%d km: %w", s.cfg.MaxRadiusKM, ErrValidation)
	}

	return out, nil
}

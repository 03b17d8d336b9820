package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) querier(tx pgx.Tx) (rowQuerier, error) {
	if tx != nil {
		return tx, nil
	}
	if r.pool == nil {
		return nil, ErrPoolUnavailable
	}
	return r.pool, nil
}

const profileColumns = `
	user_id,
	first_name,
	last_name,
	birth_date,
	gender,
	interested_in,
	bio,
	location_label,
	lat,
	lon,
	max_distance_km,
	avatar_key,
	created_at,
	updated_at`

// Get reads a profile inside tx when given, otherwise from the pool.
func (r *ProfileRepo) Get(ctx context.Context, tx pgx.Tx, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, errs.ErrNoProfile
	}
	q, err := r.querier(tx)
	if err != nil {
		return model.Profile{}, err
	}

	profile, err := scanProfile(q.QueryRow(ctx, `SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, errs.ErrNoProfile
		}
		return model.Profile{}, wrapErr("get profile", err)
	}

	return profile, nil
}

func (r *ProfileRepo) Exists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	q, err := r.querier(tx)
	if err != nil {
		return false, err
	}

	var one int
	err = q.QueryRow(ctx, `
SELECT 1
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, wrapErr("lookup profile", err)
	}

	return true, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile, at time.Time) (model.Profile, error) {
	if p.UserID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid profile user id")
	}
	if r.pool == nil {
		return model.Profile{}, ErrPoolUnavailable
	}

	saved, err := scanProfile(r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	user_id,
	first_name,
	last_name,
	birth_date,
	gender,
	interested_in,
	bio,
	location_label,
	lat,
	lon,
	max_distance_km,
	avatar_key,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
ON CONFLICT (user_id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	birth_date = EXCLUDED.birth_date,
	gender = EXCLUDED.gender,
	interested_in = EXCLUDED.interested_in,
	bio = EXCLUDED.bio,
	location_label = EXCLUDED.location_label,
	lat = EXCLUDED.lat,
	lon = EXCLUDED.lon,
	max_distance_km = EXCLUDED.max_distance_km,
	avatar_key = EXCLUDED.avatar_key,
	updated_at = EXCLUDED.updated_at
RETURNING`+profileColumns,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.BirthDate.UTC(),
		string(p.Gender),
		string(p.InterestedIn),
		p.Bio,
		p.LocationLabel,
		p.Lat,
		p.Lon,
		p.MaxDistanceKM,
		p.AvatarKey,
		at.UTC(),
	))
	if err != nil {
		return model.Profile{}, wrapErr("upsert profile", err)
	}

	return saved, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p            model.Profile
		gender       string
		interestedIn string
	)
	if err := row.Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&gender,
		&interestedIn,
		&p.Bio,
		&p.LocationLabel,
		&p.Lat,
		&p.Lon,
		&p.MaxDistanceKM,
		&p.AvatarKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}
	p.Gender = enums.Gender(gender)
	p.InterestedIn = enums.Preference(interestedIn)
	return p, nil
}

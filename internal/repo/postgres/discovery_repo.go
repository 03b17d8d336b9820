package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/rules"
)

type DiscoveryRepo struct {
	pool *pgxpool.Pool
}

func NewDiscoveryRepo(pool *pgxpool.Pool) *DiscoveryRepo {
	return &DiscoveryRepo{pool: pool}
}

// CandidateQuery describes one feed page. Origin and Box are only used when
// the viewer has a location; RadiusKM must be positive in that case.
type CandidateQuery struct {
	ViewerUserID        int64
	AcceptedGenders     []enums.Gender
	AcceptedPreferences []enums.Preference
	AgeMin              int
	AgeMax              int
	Lat                 *float64
	Lon                 *float64
	RadiusKM            float64
	Box                 rules.Box
	Limit               int
	Now                 time.Time
}

type CandidateRecord struct {
	UserID        int64
	FirstName     string
	LastName      string
	BirthDate     time.Time
	Gender        enums.Gender
	InterestedIn  enums.Preference
	Bio           string
	LocationLabel string
	Lat           *float64
	Lon           *float64
	AvatarKey     string
	DistanceKM    *float64
	LastActiveAt  *time.Time
}

func (r *DiscoveryRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]CandidateRecord, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		return []CandidateRecord{}, nil
	}
	if q.Now.IsZero() {
		q.Now = time.Now().UTC()
	}
	if r.pool == nil {
		return nil, ErrPoolUnavailable
	}

	applyRadius := q.Lat != nil && q.Lon != nil && q.RadiusKM > 0
	var originLat, originLon float64
	if applyRadius {
		originLat, originLon = *q.Lat, *q.Lon
	}

	genders := make([]string, 0, len(q.AcceptedGenders))
	for _, g := range q.AcceptedGenders {
		genders = append(genders, string(g))
	}
	prefs := make([]string, 0, len(q.AcceptedPreferences))
	for _, p := range q.AcceptedPreferences {
		prefs = append(prefs, string(p))
	}

	// $1 viewer, $2 now, $3 genders, $4 preferences, $5-$6 age bounds,
	// $7 apply radius, $8-$9 origin, $10 radius, $11-$15 bounding box, $16 limit.
	rows, err := r.pool.Query(ctx, `
WITH scoped AS (
	SELECT
		p.user_id,
		p.first_name,
		p.last_name,
		p.birth_date,
		p.gender,
		p.interested_in,
		p.bio,
		p.location_label,
		p.lat,
		p.lon,
		p.avatar_key,
		a.last_active_at,
		CASE
			WHEN $7::boolean = TRUE
			THEN 2 * 6371.0 * ASIN(LEAST(1.0, SQRT(
				POWER(SIN(RADIANS(p.lat - $8::float8) / 2), 2)
				+ COS(RADIANS($8::float8)) * COS(RADIANS(p.lat)) * POWER(SIN(RADIANS(p.lon - $9::float8) / 2), 2)
			)))
			ELSE NULL
		END AS distance_km
	FROM profiles p
	JOIN accounts a ON a.id = p.user_id
	WHERE
		a.is_active
		AND a.email_verified
		AND p.user_id <> $1
		AND p.gender = ANY($3::text[])
		AND p.interested_in = ANY($4::text[])
		AND DATE_PART('year', AGE($2::timestamptz::date, p.birth_date))::int BETWEEN $5 AND $6
		AND NOT EXISTS (
			SELECT 1
			FROM interest_judgments j
			WHERE j.judge_id = $1
				AND j.subject_id = p.user_id
		)
		AND (
			$7::boolean = FALSE
			OR (
				p.lat IS NOT NULL
				AND p.lon IS NOT NULL
				AND p.lat BETWEEN $11::float8 AND $12::float8
				AND (
					($15::boolean = FALSE AND p.lon BETWEEN $13::float8 AND $14::float8)
					OR ($15::boolean = TRUE AND (p.lon >= $13::float8 OR p.lon <= $14::float8))
				)
			)
		)
)
SELECT
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
	avatar_key,
	distance_km,
	last_active_at
FROM scoped
WHERE $7::boolean = FALSE OR distance_km <= $10::float8
ORDER BY last_active_at DESC NULLS LAST, distance_km ASC NULLS LAST, user_id ASC
LIMIT $16
`,
		q.ViewerUserID,
		q.Now.UTC(),
		genders,
		prefs,
		q.AgeMin,
		q.AgeMax,
		applyRadius,
		originLat,
		originLon,
		q.RadiusKM,
		q.Box.MinLat,
		q.Box.MaxLat,
		q.Box.MinLon,
		q.Box.MaxLon,
		q.Box.WrapsLon,
		q.Limit,
	)
	if err != nil {
		return nil, wrapErr("list discovery candidates", err)
	}
	defer rows.Close()

	items := make([]CandidateRecord, 0, q.Limit)
	for rows.Next() {
		var (
			item         CandidateRecord
			gender       string
			interestedIn string
		)
		if err := rows.Scan(
			&item.UserID,
			&item.FirstName,
			&item.LastName,
			&item.BirthDate,
			&gender,
			&interestedIn,
			&item.Bio,
			&item.LocationLabel,
			&item.Lat,
			&item.Lon,
			&item.AvatarKey,
			&item.DistanceKM,
			&item.LastActiveAt,
		); err != nil {
			return nil, fmt.Errorf("scan discovery candidate: %w", err)
		}
		item.Gender = enums.Gender(gender)
		item.InterestedIn = enums.Preference(interestedIn)
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, wrapErr("iterate discovery candidates", rows.Err())
	}

	return items, nil
}

package integration_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bokk3/dating-app/internal/domain/enums"
	"github.com/bokk3/dating-app/internal/domain/model"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
	discoverysvc "github.com/bokk3/dating-app/internal/services/discovery"
	matchessvc "github.com/bokk3/dating-app/internal/services/matches"
	mediasvc "github.com/bokk3/dating-app/internal/services/media"
	swipesvc "github.com/bokk3/dating-app/internal/services/swipes"
)

type engine struct {
	pool      *pgxpool.Pool
	profiles  *pgrepo.ProfileRepo
	judgments *pgrepo.JudgmentRepo
	swipes    *swipesvc.Service
	matches   *matchessvc.Service
	discovery *discoverysvc.Service
}

func requireDatabase(t *testing.T) {
	t.Helper()
	if testDSN == "" {
		t.Skip("docker postgres is not available")
	}
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	requireDatabase(t)

	pool, err := pgrepo.NewPool(context.Background(), testDSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	avatars := mediasvc.NewAvatars(nil, time.Hour, "/images/default-avatar.png", zap.NewNop())
	transactor := pgrepo.NewTransactor(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	judgmentRepo := pgrepo.NewJudgmentRepo(pool)

	matches := matchessvc.NewService(matchessvc.Dependencies{
		Tx:       transactor,
		Matches:  pgrepo.NewMatchRepo(pool),
		Likes:    judgmentRepo,
		Messages: pgrepo.NewMessageRepo(pool),
		Avatars:  avatars,
	}, matchessvc.Config{LookupParallelism: 4})

	return &engine{
		pool:      pool,
		profiles:  profileRepo,
		judgments: judgmentRepo,
		matches:   matches,
		swipes: swipesvc.NewService(swipesvc.Dependencies{
			Tx:        transactor,
			Profiles:  profileRepo,
			Judgments: judgmentRepo,
			Matcher:   matches,
		}, swipesvc.Config{}),
		discovery: discoverysvc.NewService(discoverysvc.Dependencies{
			Profiles:   profileRepo,
			Candidates: pgrepo.NewDiscoveryRepo(pool),
			Avatars:    avatars,
		}, discoverysvc.Config{}),
	}
}

type seedProfile struct {
	gender       enums.Gender
	interestedIn enums.Preference
	age          int
	lat, lon     *float64
	radiusKM     int
}

func ptr(v float64) *float64 {
	return &v
}

// seedAccount inserts an active, verified account the way the identity
// service would.
func seedAccount(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	email := fmt.Sprintf("%s.%s", uuid.NewString()[:8], faker.Email())
	var id int64
	err := pool.QueryRow(context.Background(), `
INSERT INTO accounts (email, is_active, email_verified, last_active_at)
VALUES ($1, TRUE, TRUE, NOW())
RETURNING id
`, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *engine) seedUser(t *testing.T, p seedProfile) int64 {
	t.Helper()

	if p.age == 0 {
		p.age = 30
	}
	id := seedAccount(t, e.pool)
	now := time.Now().UTC()
	_, err := e.profiles.Upsert(context.Background(), model.Profile{
		UserID:        id,
		FirstName:     faker.FirstName(),
		LastName:      faker.LastName(),
		BirthDate:     now.AddDate(-p.age, 0, -1),
		Gender:        p.gender,
		InterestedIn:  p.interestedIn,
		Bio:           faker.Sentence(),
		Lat:           p.lat,
		Lon:           p.lon,
		MaxDistanceKM: p.radiusKM,
	}, now)
	require.NoError(t, err)
	return id
}

func (e *engine) countMatches(t *testing.T, a, b int64) (total, active int) {
	t.Helper()

	low, high := min(a, b), max(a, b)
	err := e.pool.QueryRow(context.Background(), `
SELECT COUNT(*), COUNT(*) FILTER (WHERE active)
FROM matches
WHERE user_low_id = $1 AND user_high_id = $2
`, low, high).Scan(&total, &active)
	require.NoError(t, err)
	return total, active
}

func (e *engine) insertMessage(t *testing.T, matchID, senderID int64, body string, sentAt time.Time) {
	t.Helper()

	_, err := e.pool.Exec(context.Background(), `
INSERT INTO messages (match_id, sender_id, body, sent_at)
VALUES ($1, $2, $3, $4)
`, matchID, senderID, body, sentAt)
	require.NoError(t, err)
}

package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bokk3/dating-app/internal/config"
	"github.com/bokk3/dating-app/internal/infra/migrator"
	s3infra "github.com/bokk3/dating-app/internal/infra/s3"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
	redrepo "github.com/bokk3/dating-app/internal/repo/redis"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	discoverysvc "github.com/bokk3/dating-app/internal/services/discovery"
	matchessvc "github.com/bokk3/dating-app/internal/services/matches"
	mediasvc "github.com/bokk3/dating-app/internal/services/media"
	profilesvc "github.com/bokk3/dating-app/internal/services/profiles"
	ratesvc "github.com/bokk3/dating-app/internal/services/rate"
	swipesvc "github.com/bokk3/dating-app/internal/services/swipes"
	"github.com/bokk3/dating-app/internal/transport/http/handlers"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

// New wires the engine. Unreachable dependencies are logged and left nil so
// the process still serves /healthz; calls that need them answer 503.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg.HTTP.RequestTimeout, log)

	if cfg.Postgres.AutoMigrate {
		if err := migrate(cfg.Postgres.DSN); err != nil {
			log.Warn("auto migration failed", zap.Error(err))
		}
	}

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	healthChecks := map[string]handlers.Pinger{
		"postgres": nil,
		"redis": func(ctx context.Context) error {
			return redrepo.Ping(ctx, redisClient)
		},
		"s3": nil,
	}
	if pool != nil {
		healthChecks["postgres"] = func(ctx context.Context) error {
			return pgrepo.Ping(ctx, pool)
		}
	}

	var avatarStorage mediasvc.Presigner
	s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Warn("s3 init failed, serving default avatars", zap.Error(err))
	} else {
		storage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
		bucketCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("s3 bucket check failed", zap.String("bucket", cfg.S3.Bucket), zap.Error(err))
		}
		cancel()
		avatarStorage = storage
		healthChecks["s3"] = storage.Ping
	}
	avatars := mediasvc.NewAvatars(avatarStorage, cfg.S3.AvatarURLTTL, cfg.S3.DefaultAvatar, log)

	transactor := pgrepo.NewTransactor(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	accountRepo := pgrepo.NewAccountRepo(pool)
	judgmentRepo := pgrepo.NewJudgmentRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	discoveryRepo := pgrepo.NewDiscoveryRepo(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	profileService := profilesvc.NewService(profileRepo, profilesvc.Config{
		AgeMin:      cfg.Discovery.AgeMin,
		AgeMax:      cfg.Discovery.AgeMax,
		MaxRadiusKM: cfg.Discovery.MaxRadiusKM,
	})
	discoveryService := discoverysvc.NewService(discoverysvc.Dependencies{
		Profiles:   profileRepo,
		Candidates: discoveryRepo,
		Avatars:    avatars,
	}, discoverysvc.Config{
		AgeMin:          cfg.Discovery.AgeMin,
		AgeMax:          cfg.Discovery.AgeMax,
		DefaultRadiusKM: cfg.Discovery.DefaultRadiusKM,
		MaxRadiusKM:     cfg.Discovery.MaxRadiusKM,
		DefaultLimit:    cfg.Discovery.DefaultLimit,
		MaxLimit:        cfg.Discovery.MaxLimit,
	})
	matchesService := matchessvc.NewService(matchessvc.Dependencies{
		Tx:       transactor,
		Matches:  matchRepo,
		Likes:    judgmentRepo,
		Messages: messageRepo,
		Avatars:  avatars,
	}, matchessvc.Config{
		LookupParallelism: cfg.Matches.LookupParallelism,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Tx:          transactor,
		Profiles:    profileRepo,
		Judgments:   judgmentRepo,
		Matcher:     matchesService,
		RateLimiter: ratesvc.NewLimiter(rateRepo, cfg.Swipes.RatePerMinute, cfg.Swipes.RatePer10Seconds),
		Logger:      log,
	}, swipesvc.Config{
		StatsDefaultDays: cfg.Swipes.StatsDefaultDays,
	})

	RegisterRoutes(r, Dependencies{
		JWT:              jwtManager,
		Activity:         accountRepo,
		Avatars:          avatars,
		ProfileService:   profileService,
		DiscoveryService: discoveryService,
		SwipeService:     swipeService,
		MatchService:     matchesService,
		HealthChecks:     healthChecks,
		Logger:           log,
		Config:           cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func migrate(dsn string) error {
	m, err := migrator.New(dsn)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

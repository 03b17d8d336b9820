package apiapp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bokk3/dating-app/internal/config"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	"github.com/bokk3/dating-app/internal/transport/http/handlers"
)

type Dependencies struct {
	JWT              *authsvc.JWTManager
	Activity         ActivityToucher
	Avatars          handlers.AvatarResolver
	ProfileService   handlers.ProfileService
	DiscoveryService handlers.DiscoveryService
	SwipeService     handlers.SwipeService
	MatchService     handlers.MatchService
	HealthChecks     map[string]handlers.Pinger
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.Avatars)
	discoverHandler := handlers.NewDiscoverHandler(deps.DiscoveryService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	authMW := AuthMiddleware(deps.JWT, deps.Activity, deps.Logger)

	r.Get("/healthz", healthHandler.Handle)
	if deps.Config.Metrics.Enabled {
		path := deps.Config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Put)
		r.Get("/discover", discoverHandler.Handle)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/swipes/stats", swipeHandler.Stats)
		r.Get("/matches", matchesHandler.List)
		r.Post("/matches/check", matchesHandler.Check)
		r.Delete("/matches/{id}", matchesHandler.Unmatch)
	})
}

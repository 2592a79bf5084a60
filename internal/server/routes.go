package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, registry *Registry) {
	broker := NewBroker()

	game := gameDeps{
		logger:    logger,
		store:     deps.Store,
		registry:  registry,
		broker:    broker,
		countries: deps.Countries,
		timeLimit: deps.TimeLimit,
	}
	daily := dailyDeps{
		logger:    logger,
		store:     deps.Store,
		countries: deps.Countries,
		now:       time.Now,
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("CountryNames API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))
	r.Get("/ws/echo", handleWSEcho(logger))

	r.Post("/api/auth/register", handleRegister(deps.Store))
	r.Post("/api/auth/login", handleLogin(deps.Store))

	r.Get("/api/countries", handleCountries(deps.Countries))
	r.Get("/api/leaderboard", handleLeaderboard(logger, deps.Store, deps.Redis))

	// SSE authenticates via query token, not the auth middleware.
	r.Get("/api/game/events", handleEvents(deps.Store, broker))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(deps.Store))

		r.Post("/api/game/start", handleStartGame(game))
		r.Post("/api/game/guess", handleGuess(game))
		r.Post("/api/game/skip", handleSkip(game))
		r.Post("/api/game/giveup", handleGiveUp(game))
		r.Get("/api/game/state", handleGameState(game))

		r.Get("/api/daily", handleDaily(daily))
		r.Post("/api/daily/reveal", handleDailyReveal(daily))
		r.Post("/api/daily/guess", handleDailyGuess(daily))

		r.Get("/api/me/stats", handleStats(deps.Store))
		r.Get("/api/me/misses", handleMisses(deps.Store, deps.Countries))
		r.Delete("/api/me/misses/{countryID}", handleClearMiss(deps.Store))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

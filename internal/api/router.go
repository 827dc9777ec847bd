// Package api serves the public REST API and live leaderboard stream.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/config"
	"github.com/yourusername/tightlines/internal/health"
	"github.com/yourusername/tightlines/internal/live"
	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/repository"
	"github.com/yourusername/tightlines/internal/service"
	"github.com/yourusername/tightlines/internal/tracing"
)

// Options tune the router
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxPageSize    int
	MetricsPath    string
	MetricsHandler http.Handler
	// Tracer may be nil
	Tracer *tracing.Tracer
}

// OptionsFromConfig builds router options from application config
func OptionsFromConfig(cfg *config.Config, metricsHandler http.Handler, tracer *tracing.Tracer) Options {
	opts := Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		MaxPageSize:    cfg.Server.MaxPageSize,
		Tracer:         tracer,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = metricsHandler
	}
	return opts
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	competitions *service.CompetitionService
	leaderboards *service.LeaderboardService
	anglers      repository.AnglerRepository
	hub          *live.Hub
	health       *health.Server
	logger       *logrus.Logger
	opts         Options

	// streams outlive the upgrade request; they stop with this context
	streamCtx context.Context
}

// NewHandler creates a new handler with dependencies. hub and healthServer may be nil.
func NewHandler(
	streamCtx context.Context,
	competitions *service.CompetitionService,
	leaderboards *service.LeaderboardService,
	anglers repository.AnglerRepository,
	hub *live.Hub,
	healthServer *health.Server,
	log *logrus.Logger,
	opts Options,
) *Handler {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Handler{
		competitions: competitions,
		leaderboards: leaderboards,
		anglers:      anglers,
		hub:          hub,
		health:       healthServer,
		logger:       log,
		opts:         opts,
		streamCtx:    streamCtx,
	}
}

// Routes builds the chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(h.opts.Tracer.Middleware)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestMetrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if h.health != nil {
		r.Get("/health", h.health.HandleHealth)
		r.Get("/ready", h.health.HandleReady)
	}
	if h.opts.MetricsHandler != nil && h.opts.MetricsPath != "" {
		r.Handle(h.opts.MetricsPath, h.opts.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(h.opts.RequestTimeout))

		r.Get("/competitions", h.ListCompetitions)
		r.Get("/competitions/{id}", h.GetCompetition)
		r.Get("/competitions/{id}/leaderboard", h.GetLeaderboard)
		r.Get("/competitions/{id}/teams", h.GetTeams)
		r.Post("/competitions/{id}/weigh-ins", h.RecordWeighIn)

		r.Get("/anglers", h.ListAnglers)
		r.Get("/anglers/{id}", h.GetAngler)

		r.Get("/weights/format", h.FormatWeight)
	})

	r.Get("/ws/competitions", h.StreamStatusChanges)
	r.Get("/ws/competitions/{id}", h.StreamLeaderboard)

	return r
}

// Package main provides the entry point for the Tightlines API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tightlines/internal/api"
	"github.com/yourusername/tightlines/internal/config"
	"github.com/yourusername/tightlines/internal/database"
	"github.com/yourusername/tightlines/internal/health"
	"github.com/yourusername/tightlines/internal/live"
	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/metrics"
	"github.com/yourusername/tightlines/internal/repository"
	"github.com/yourusername/tightlines/internal/schedule"
	"github.com/yourusername/tightlines/internal/scheduler"
	"github.com/yourusername/tightlines/internal/service"
	"github.com/yourusername/tightlines/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const shutdownTimeout = 15 * time.Second

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Tightlines competition API",
	Long:  `Serves competitions, leaderboards and live weigh-in updates for fishing matches.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API, live feed and status scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serve() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Tightlines server starting")

	db, err := database.Initialize(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	resolver, err := schedule.NewResolver(cfg.Schedule.Timezone, appLog)
	if err != nil {
		return fmt.Errorf("failed to load schedule timezone: %w", err)
	}

	metrics.InitRegistry()

	tracer, err := tracing.New(tracing.ConfigFrom(&cfg.Tracing), appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	competitions := service.NewCompetitionService(
		repos.Competition,
		resolver,
		service.NewResponseCache("competitions", cfg.CompetitionsTTL()),
		appLog,
	)

	var hub *live.Hub
	var publisher service.LeaderboardPublisher
	if cfg.Live.Enabled {
		hub = live.NewHub(cfg.Live.SendBufferSize, cfg.Server.CORSOrigins, appLog)
		go hub.Run(ctx)
		publisher = hub
	}

	leaderboards := service.NewLeaderboardService(
		repos.Leaderboard,
		competitions,
		service.NewResponseCache("leaderboard", cfg.LeaderboardTTL()),
		publisher,
		appLog,
	)

	var broadcaster scheduler.StatusBroadcaster
	if hub != nil {
		broadcaster = hub
	}
	sched := scheduler.NewScheduler(competitions, broadcaster, resolver.Location(), appLog)
	sched.SetTracer(tracer)
	if err := sched.ScheduleStatusRefresh(cfg.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("failed to schedule status refresh: %w", err)
	}
	if _, err := sched.RefreshOnce(ctx); err != nil {
		appLog.WithError(err).Warn("Initial status refresh failed")
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
	})
	healthServer.AddCheck("timezone", health.ZoneCheck(cfg.Schedule.Timezone, resolver.Location()))
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}
	handler := api.NewHandler(ctx, competitions, leaderboards, repos.Angler, hub, healthServer, appLog,
		api.OptionsFromConfig(cfg, metricsHandler, tracer))

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.WithFields(logrus.Fields{
			"addr":         srv.Addr,
			"live_enabled": cfg.Live.Enabled,
			"timezone":     cfg.Schedule.Timezone,
			"next_refresh": sched.GetNextRun(),
		}).Info("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	healthServer.SetReady(true)

	select {
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
	}

	healthServer.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("API server shutdown failed")
	}

	appLog.Info("Tightlines server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/config"
	"github.com/join-board/join-api/internal/database"
	"github.com/join-board/join-api/internal/logging"
	"github.com/join-board/join-api/internal/services"
	"github.com/join-board/join-api/internal/validators"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// appSettings is the subset of configuration the services need.
type appSettings struct {
	activityStampInterval time.Duration
	sweeper               services.SweeperConfig
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := validators.Register(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	a := newApp(db, appSettings{
		activityStampInterval: cfg.ActivityStampInterval,
		sweeper: services.SweeperConfig{
			GuestGracePeriod:   cfg.GuestGracePeriod,
			GuestIdleThreshold: cfg.GuestIdleThreshold,
			UserIdleThreshold:  cfg.UserIdleThreshold,
		},
	}, log)

	scheduler := services.NewSchedulerService(time.UTC)
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, sweepJob(a.sweeper, cfg.SweepInterval, log)); err != nil {
		log.Fatalf("Failed to schedule sweeper: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           setupRouter(a, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.ServerAddr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	scheduler.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// sweepJob runs one sweep bounded by the sweep interval.
func sweepJob(sweeper *services.SweeperService, interval time.Duration, log logrus.FieldLogger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		result, err := sweeper.Sweep(ctx)
		if err != nil {
			log.WithError(err).Error("Inactivity sweep failed")
			return
		}
		if result.GuestsDeleted > 0 || result.GuestsFailed > 0 || result.TokensRevoked > 0 {
			log.WithFields(logrus.Fields{
				"guests_deleted": result.GuestsDeleted,
				"guests_failed":  result.GuestsFailed,
				"tokens_revoked": result.TokensRevoked,
			}).Info("Inactivity sweep completed")
		}
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/blog-backend/internal/jobs"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/anonto42/blog-backend/internal/router"
	"github.com/anonto42/blog-backend/pkg/config"
	"github.com/anonto42/blog-backend/pkg/firebase"
	"github.com/anonto42/blog-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections. Only a configured but broken Postgres is fatal.
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB()

	posts := repositories.NewMongoPostRepository(db)
	comments := repositories.NewMongoCommentRepository(db)
	wishlist := repositories.NewMongoWishlistRepository(db)
	db.EnsureIndexes(ctx, posts, comments, wishlist)

	deps := router.Dependencies{
		Config:   cfg,
		Log:      log,
		Posts:    posts,
		Comments: comments,
		Wishlist: wishlist,
	}

	var scheduler *jobs.Scheduler
	if db.Postgres != nil {
		revocations := repositories.NewPostgresRevokedTokenRepository(db.Postgres)
		deps.Revocations = revocations

		scheduler, err = jobs.NewScheduler(cfg.RevokedPurgeSpec, revocations, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to schedule jobs")
		}
		scheduler.Start()
	}

	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Firebase")
		}
		deps.Verifier = firebaseApp
	}

	e := router.New(deps)

	go func() {
		log.WithField("port", cfg.Port).Info("Server is running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias09/esports-hub/config"
	"github.com/Dias09/esports-hub/db"
	_ "github.com/Dias09/esports-hub/docs"
	"github.com/Dias09/esports-hub/handlers"
	"github.com/Dias09/esports-hub/live"
	"github.com/Dias09/esports-hub/middleware"
	"github.com/Dias09/esports-hub/repositories"
	api "github.com/Dias09/esports-hub/routes"
	"github.com/Dias09/esports-hub/services"
	"github.com/Dias09/esports-hub/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("file storage initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("leaderboard hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	leaderboardService := services.NewLeaderboardService(teamRepo, registrationRepo, hub, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, registrationRepo, uploader, leaderboardService, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, uploader, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, logger)
	registrationService := services.NewRegistrationService(registrationRepo, teamRepo, tournamentRepo, leaderboardService)
	logger.Info("services initialized")

	// Periodically archive tournaments whose date has passed.
	go func() {
		ticker := time.NewTicker(cfg.ArchiveInterval)
		defer ticker.Stop()
		logger.Info("tournament archiver started", slog.Duration("interval", cfg.ArchiveInterval))

		if err := tournamentService.ArchiveExpired(context.Background()); err != nil {
			logger.Error("archiver: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.ArchiveExpired(context.Background()); err != nil {
				logger.Error("archiver: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		middleware.Authenticate([]byte(cfg.JWTSecretKey), authService),
		authHandler,
		teamHandler,
		playerHandler,
		tournamentHandler,
		registrationHandler,
		leaderboardHandler,
		webSocketHandler,
		cfg.CORSAllowedOrigins,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}

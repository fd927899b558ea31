package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jehub/points-backend/api/routes"
	"github.com/jehub/points-backend/internal/config"
	"github.com/jehub/points-backend/internal/handlers"
	"github.com/jehub/points-backend/internal/repositories"
	mongorepo "github.com/jehub/points-backend/internal/repositories/mongodb"
	"github.com/jehub/points-backend/internal/services"
	"github.com/jehub/points-backend/pkg/mongodb"
	"github.com/jehub/points-backend/pkg/telegram"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// Missing .env is fine; config falls back to environment and defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	connectCancel()
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	userRepoImpl := mongorepo.NewUserRepository(db)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepoImpl.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		slog.Error("failed to create user indexes", "error", err)
		os.Exit(1)
	}
	indexCancel()

	var userRepo repositories.UserRepository = userRepoImpl
	var ledgerRepo repositories.LedgerRepository = mongorepo.NewLedgerRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)
	var memberRepo repositories.TelegramMemberRepository = mongorepo.NewTelegramMemberRepository(db)

	telegramClient := telegram.NewClient(cfg)

	codeGen := services.NewCodeGenerator(userRepo, cfg.Points.CodeMaxAttempts)
	ledgerService := services.NewLedgerService(userRepo, ledgerRepo, cfg.Points)
	referralService := services.NewReferralService(userRepo, ledgerRepo, ledgerService, codeGen, cfg.Points)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(adminRepo, cfg)
	telegramService := services.NewTelegramService(memberRepo, userRepo, telegramClient)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		UserHandler:     handlers.NewUserHandler(userService, referralService),
		PointsHandler:   handlers.NewPointsHandler(ledgerService),
		ReferralHandler: handlers.NewReferralHandler(referralService),
		TelegramHandler: handlers.NewTelegramHandler(telegramService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

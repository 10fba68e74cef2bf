package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wichananm65/authgate/internal/config"
	"github.com/wichananm65/authgate/internal/database"
	"github.com/wichananm65/authgate/internal/hello"
	"github.com/wichananm65/authgate/internal/logging"
	"github.com/wichananm65/authgate/internal/router"
	"github.com/wichananm65/authgate/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	issuer := user.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	userService, err := user.NewService(repo, user.NewBcryptHasher(cfg.BcryptCost), issuer)
	if err != nil {
		return err
	}
	userHandler := user.NewHandler(userService, logger)
	helloHandler := hello.NewHandler()

	table := router.Table{
		Public:    append(helloHandler.Routes(), userHandler.PublicRoutes()...),
		Protected: userHandler.ProtectedRoutes(),
	}
	app := router.New(table, router.Options{
		Prefix:       cfg.APIPrefix,
		AllowOrigins: cfg.CORSAllowOrigins,
		SigningKey:   issuer.SigningKey(),
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.Addr), slog.String("env", cfg.AppEnv), slog.String("storage", cfg.StorageDriver))
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
}

func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (user.Repository, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		if cfg.IsProduction() {
			return nil, nil, errors.New("memory storage is not allowed in production")
		}
		logger.Warn("using in-memory user storage; data is lost on restart")
		return user.NewInMemoryRepository(), func() {}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("database ready")

	return user.NewPostgresRepository(db), func() { closeDB(db, logger) }, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("close database", slog.Any("error", err))
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepdeck/problembank/internal/api"
	"github.com/prepdeck/problembank/internal/bank"
	"github.com/prepdeck/problembank/internal/platform/cache"
	"github.com/prepdeck/problembank/internal/platform/config"
	"github.com/prepdeck/problembank/internal/platform/database"
	"github.com/prepdeck/problembank/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	b, err := loadBank(cfg.Dataset)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "problems", b.Len(), "topics", len(b.Topics()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var db *database.DB
	if cfg.Database.URL != "" {
		db, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting database: %w", err)
		}
		defer db.Close()

		st := store.New(db.Pool)
		if err := st.Init(ctx); err != nil {
			return err
		}
		if err := st.Sync(ctx, b.Document()); err != nil {
			return err
		}
		logger.Info("dataset synced to database")
	}

	var c *cache.Cache
	if cfg.Cache.URL != "" {
		c, err = cache.Connect(ctx, cfg.Cache.URL, cfg.Cache.ProblemTTL)
		if err != nil {
			return fmt.Errorf("connecting cache: %w", err)
		}
		defer c.Close()
		logger.Info("cache connected", "ttl", cfg.Cache.ProblemTTL)
	}

	handler := api.NewHandler(b, c, db, logger, time.Now().UnixNano())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func loadBank(cfg config.DatasetConfig) (*bank.Bank, error) {
	if cfg.Path == "" {
		return bank.Embedded()
	}
	return bank.LoadFile(cfg.Path)
}

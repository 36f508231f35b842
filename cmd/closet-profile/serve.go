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

	"github.com/spf13/cobra"

	"github.com/terra-clan/closet-profile/internal/api"
	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/cleanup"
	"github.com/terra-clan/closet-profile/internal/config"
	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/services"
	"github.com/terra-clan/closet-profile/internal/storage"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the questionnaire web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg.Log)
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	slog.Info("starting closet-profile",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"store", cfg.Session.Store,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	repo, err := openStore(initCtx, cfg)
	if err != nil {
		return err
	}

	engineCfg := export.EngineConfig{
		FontDir:   cfg.Export.FontDir,
		LogoPath:  cfg.Export.LogoPath,
		Signature: cfg.Export.Signature,
	}
	if hw, ok := cat.DualCategories(); ok {
		engineCfg.Hardware = hw
	}
	engine := export.NewEngine(engineCfg)

	manager := wizard.NewManager(cat, repo, engine, wizard.Config{
		SessionTTL:    cfg.Session.TTL,
		ExportLockTTL: cfg.Session.ExportLockTTL,
	})

	// Initialize service registry
	registry := services.NewRegistry()
	registry.Register("session_store", services.NewChecker(cfg.Session.Store, manager.Ping))
	registry.Register("pdf_engine", services.NewChecker("fpdf", func(ctx context.Context) error {
		return engine.Init()
	}))

	var sharer delivery.Sharer
	if cfg.Share.Enabled {
		mail, err := delivery.NewMailShare(initCtx, delivery.MailConfig{
			Region:   cfg.Share.Region,
			From:     cfg.Share.From,
			StudioTo: cfg.Share.StudioTo,
			CcClient: cfg.Share.CcClient,
		})
		if err != nil {
			return fmt.Errorf("failed to create mail share: %w", err)
		}
		sharer = mail
		slog.Info("mail share enabled", "region", cfg.Share.Region)
	}
	adapter := delivery.NewAdapter(sharer)

	// Warm the PDF engine; a failure is kept and reported by every export
	if err := engine.Init(); err != nil {
		slog.Warn("pdf engine unavailable", "error", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleaner := cleanup.NewCleaner(manager, cfg.Cleanup.Interval)
	cleaner.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, manager, adapter, registry)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		cancel()
		manager.Close()
		return err
	}

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := manager.Close(); err != nil {
		slog.Error("session store close error", "error", err)
	}

	slog.Info("closet-profile stopped")
	return nil
}

// openStore connects the configured session store
func openStore(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		repo, err := storage.NewRedisRepository(ctx, storage.RedisConfig{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis repository: %w", err)
		}
		slog.Info("redis connected successfully", "address", cfg.Redis.Address)
		return repo, nil

	case config.StorePostgres:
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(ctx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{DSN: cfg.Database.DSN})
		if err != nil {
			return nil, fmt.Errorf("failed to create database repository: %w", err)
		}
		slog.Info("database connected successfully")
		return repo, nil
	}

	slog.Warn("using in-memory session store; sessions are lost on restart")
	return storage.NewMemoryRepository(), nil
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"godam/frontend/deliveryNotes/printing"
	exportspage "godam/frontend/exports"
	orderprogress "godam/frontend/orders/progress"
	"godam/infrastructure/audit"
	"godam/infrastructure/backend"
	"godam/infrastructure/cache"
	"godam/infrastructure/config"
	httpserver "godam/infrastructure/http"
	"godam/infrastructure/logger"
	"godam/infrastructure/printsurface"
	"godam/infrastructure/rbac"
	"godam/infrastructure/sqlite"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.App.Env))

	if err := run(cfg); err != nil {
		slog.Error("godam stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(ctx, db, cfg.SQLite.MigrationsDir); err != nil {
		return err
	}

	api, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)
	if err != nil {
		return err
	}

	rbacCache := cache.NewRbacRolesCache()
	auditSvc := audit.NewService()
	drafts := cache.NewDraftCache()
	registry := printsurface.NewRegistry(cfg.Print.SessionTTL)
	tracker := orderprogress.NewTracker()
	upgrader := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096}

	progressDeps := &orderprogress.Deps{
		Tracker:      tracker,
		Movements:    api,
		FetchTimeout: cfg.Backend.Timeout,
		Upgrader:     upgrader,
	}
	server := httpserver.NewServer(cfg.HTTP.Addr, httpserver.Services{
		DB:           db,
		SessionCache: cache.NewUserSessionCache(),
		UserCache:    cache.NewUserCache(),
		RbacCache:    rbacCache,
		Rbac:         rbac.New(rbacCache),
		Audit:        auditSvc,
		Drafts:       drafts,
		Print: &printing.Deps{
			DB:                 db,
			Audit:              auditSvc,
			Backend:            api,
			Registry:           registry,
			Drafts:             drafts,
			PreparedByFallback: cfg.Print.PreparedByFallback,
			FetchTimeout:       cfg.Backend.Timeout,
			RenderWait:         cfg.Print.RenderWait,
			Location:           time.Local,
			Upgrader:           upgrader,
		},
		Progress:       progressDeps,
		Exports:        &exportspage.Deps{DB: db, Audit: auditSvc, Registry: registry, Progress: progressDeps},
		SecureCookie:   cfg.HTTP.SecureCookie,
		MetricsEnabled: cfg.Metrics.Enabled,
	})
	if err := server.Start(); err != nil {
		return err
	}
	slog.Info("godam listening", slog.String("addr", cfg.HTTP.Addr), slog.String("backend", cfg.Backend.BaseURL))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		registry.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		server.RunJanitor(gctx, 5*time.Minute)
		return nil
	})
	orders := orderprogress.NewOrderIndex(api, cfg.Backend.Timeout)
	g.Go(func() error {
		tracker.Run(gctx, time.Minute, cfg.Progress.OrderIdle, orders.Sweep)
		return nil
	})
	if cfg.Backend.PicksURL != "" {
		feed := backend.NewPickFeed(cfg.Backend.PicksURL, cfg.Backend.Token, cfg.Backend.PicksRetry)
		g.Go(func() error {
			return feed.Run(gctx, orderprogress.PickHandler(gctx, tracker, orders))
		})
	} else {
		slog.Info("pick feed disabled; order progress refreshes from movement history only")
	}

	<-gctx.Done()
	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
	return g.Wait()
}

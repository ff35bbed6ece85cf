package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/jobscout/internal/api"
	"github.com/baxromumarov/jobscout/internal/app"
	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/core"
	"github.com/baxromumarov/jobscout/internal/observability"
)

func main() {
	configPath := flag.String("config", os.Getenv("JOBSCOUT_CONFIG"), "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout))
	observability.RegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.Config.API.Key == "" {
		slog.Warn("itjobs api key is not configured; job endpoints will return 503")
	}

	svc := api.Services{
		Listing:        a.Listing,
		Enricher:       a.Enricher,
		Stats:          a.Stats,
		TeamlyzerPages: cfg.Teamlyzer.FallbackPages,
		MaxPages:       cfg.Server.MaxPages,
		MaxLimit:       cfg.Server.MaxLimit,
	}
	if a.Store != nil {
		svc.Cache = a.Store
	}
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           api.NewServer(svc).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.Store != nil {
		scheduler := core.NewSchedulerService(a.Store, cfg.Server.PruneInterval, cfg.Store.TTL)
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

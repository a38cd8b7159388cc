package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/project-tktt/job-insight/internal/analysis"
	"github.com/project-tktt/job-insight/internal/common/cleaner"
	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/common/normalizer"
	"github.com/project-tktt/job-insight/internal/config"
	"github.com/project-tktt/job-insight/internal/intelligence"
	"github.com/project-tktt/job-insight/internal/ioc"
	"github.com/project-tktt/job-insight/internal/module/loader"
	"github.com/project-tktt/job-insight/internal/module/worker"
	"github.com/project-tktt/job-insight/internal/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("starting analytics server")

	cfg := config.Load()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, err := ioc.InitResolver(cfg.Geo)
	if err != nil {
		slog.Error("load geo tables failed", slog.Any("error", err))
		os.Exit(1)
	}

	stores, err := ioc.InitStores(ctx, cfg)
	if err != nil {
		slog.Error("open store failed", slog.String("backend", cfg.Store.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()

	// Nothing feeds a memory store but this process.
	if stores.Backend == config.BackendMemory {
		w := worker.NewWorker(nil, normalizer.NewNormalizer(), cleaner.NewCleaner(), nil,
			stores.Listings, stores.Postings, worker.Config{BatchSize: cfg.Worker.BatchSize})
		l := loader.NewLoader(w, cfg.Worker.BatchSize)
		if err := l.Load(ctx,
			loader.ListingSource(cfg.Loader.ListingCSV, stores.Listings),
			loader.PostingSource(cfg.Loader.PostingCSV, stores.Postings),
		); err != nil {
			slog.Warn("preload csv failed", slog.Any("error", err))
		}
	}

	engine := analysis.NewEngine(stores.Listings, filter.NewBuilder(resolver), resolver)
	assistant := intelligence.NewAssistant(intelligence.Config{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := web.NewServer(web.ServerConfig{AllowOrigins: cfg.Server.CORSOrigins, Registry: reg},
		web.NewAnalysisHandler(engine),
		web.NewIntelligenceHandler(engine, assistant),
		web.NewMarketHandler(engine),
		web.NewRecordHandler(stores.Listings, stores.Postings),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server listening", slog.String("addr", cfg.Server.Addr), slog.String("backend", stores.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown timeout, forcing exit", slog.Any("error", err))
		return
	}
	slog.Info("graceful shutdown complete")
}

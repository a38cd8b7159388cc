package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/project-tktt/job-insight/internal/common/cleaner"
	"github.com/project-tktt/job-insight/internal/common/dedup"
	"github.com/project-tktt/job-insight/internal/common/normalizer"
	"github.com/project-tktt/job-insight/internal/config"
	"github.com/project-tktt/job-insight/internal/ioc"
	"github.com/project-tktt/job-insight/internal/module/worker"
	"github.com/project-tktt/job-insight/internal/queue"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("starting record worker")

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := ioc.InitRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Error("redis connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("redis connected", slog.String("queue", cfg.Redis.RecordQueue))

	stores, err := ioc.InitStores(ctx, cfg)
	if err != nil {
		slog.Error("open store failed", slog.String("backend", cfg.Store.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()
	if stores.Backend == config.BackendMemory {
		slog.Warn("memory backend keeps nothing after the worker exits")
	}

	consumer := queue.NewConsumer(rdb, cfg.Redis.RecordQueue, 5*time.Second)
	dd := dedup.NewDeduplicator(rdb, "dedup", 0)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// queue -> clean -> normalize -> store
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := worker.NewWorker(consumer, normalizer.NewNormalizer(), cleaner.NewCleaner(), dd,
			stores.Listings, stores.Postings, worker.Config{
				Concurrency: cfg.Worker.Concurrency,
				BatchSize:   cfg.Worker.BatchSize,
			})
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("worker stopped", slog.Any("error", err))
		}
	}()

	<-sigChan
	slog.Info("shutdown signal received, stopping")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("graceful shutdown complete")
	case <-time.After(30 * time.Second):
		slog.Warn("shutdown timeout, forcing exit")
	}
}

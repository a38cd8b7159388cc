package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/project-tktt/job-insight/internal/config"
	"github.com/project-tktt/job-insight/internal/ioc"
	"github.com/project-tktt/job-insight/internal/module/loader"
	"github.com/project-tktt/job-insight/internal/queue"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("starting csv loader")

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := ioc.InitRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Error("redis connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()

	// Stores are only asked whether they already hold data.
	stores, err := ioc.InitStores(ctx, cfg)
	if err != nil {
		slog.Error("open store failed", slog.String("backend", cfg.Store.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()

	pub := queue.NewPublisher(rdb, cfg.Redis.RecordQueue)
	l := loader.NewLoader(pub, cfg.Worker.BatchSize)
	if err := l.Load(ctx,
		loader.ListingSource(cfg.Loader.ListingCSV, stores.Listings),
		loader.PostingSource(cfg.Loader.PostingCSV, stores.Postings),
	); err != nil {
		slog.Error("load failed", slog.Any("error", err))
		os.Exit(1)
	}

	n, err := pub.QueueLength(ctx)
	if err != nil {
		slog.Warn("read queue length failed", slog.Any("error", err))
		return
	}
	slog.Info("load complete", slog.String("queue", cfg.Redis.RecordQueue), slog.Int64("pending", n))
}

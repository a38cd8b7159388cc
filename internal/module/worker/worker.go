package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/project-tktt/job-insight/internal/common/cleaner"
	"github.com/project-tktt/job-insight/internal/common/dedup"
	"github.com/project-tktt/job-insight/internal/common/normalizer"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/domain"
)

// Free-text columns that may carry HTML.
var htmlColumns = []string{"positionDetail", "positionAdvantage", "positionTags"}

// Source yields batches of raw records. queue.Consumer implements it.
type Source interface {
	ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.RawRecord, error)
}

// Deduper skips records that were already stored. dedup.Deduplicator
// implements it.
type Deduper interface {
	Check(ctx context.Context, source, id, version string) (dedup.CheckResult, error)
	MarkSeen(ctx context.Context, source, id, version string) error
	MarkNewByContent(ctx context.Context, source string, cols map[string]string) (bool, error)
}

// Worker moves raw records from the queue into the record stores.
type Worker struct {
	source     Source
	normalizer *normalizer.Normalizer
	cleaner    *cleaner.Cleaner
	dedup      Deduper
	listings   store.Store[*domain.Listing]
	postings   store.Store[*domain.Posting]

	batchSize   int
	concurrency int
}

type Config struct {
	Concurrency int
	BatchSize   int
}

// NewWorker creates a worker. dd may be nil to index every record.
func NewWorker(
	source Source,
	norm *normalizer.Normalizer,
	clean *cleaner.Cleaner,
	dd Deduper,
	listings store.Store[*domain.Listing],
	postings store.Store[*domain.Posting],
	cfg Config,
) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}

	return &Worker{
		source:      source,
		normalizer:  norm,
		cleaner:     clean,
		dedup:       dd,
		listings:    listings,
		postings:    postings,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
}

// Run starts the worker pool and blocks until ctx is cancelled or a worker
// fails.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("starting worker pool", slog.Int("workers", w.concurrency))

	var wg sync.WaitGroup
	errChan := make(chan error, w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := w.runSingle(ctx, workerID); err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	case <-done:
		return nil
	}
}

func (w *Worker) runSingle(ctx context.Context, workerID int) error {
	log := slog.With(slog.Int("worker", workerID))
	log.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return nil
		default:
		}

		raws, err := w.source.ConsumeBatch(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn("consume failed", slog.Any("error", err))
			continue
		}
		if len(raws) == 0 {
			continue
		}

		if err := w.Process(ctx, raws); err != nil {
			log.Warn("index failed", slog.Int("records", len(raws)), slog.Any("error", err))
		}
	}
}

// Process normalizes one batch and indexes it into the matching stores.
func (w *Worker) Process(ctx context.Context, raws []*domain.RawRecord) error {
	var (
		listings []*domain.Listing
		postings []*domain.Posting
		seen     []*domain.RawRecord
	)

	for _, raw := range raws {
		if raw.Columns != nil {
			w.cleaner.CleanColumns(raw.Columns, htmlColumns...)
		}

		switch domain.RecordSource(raw.Source) {
		case domain.SourceListing:
			if !w.isFresh(ctx, raw) {
				continue
			}
			l, err := w.normalizer.Listing(raw)
			if err != nil {
				slog.Warn("normalize listing failed", slog.String("id", raw.ID), slog.Any("error", err))
				continue
			}
			listings = append(listings, l)
			seen = append(seen, raw)
		case domain.SourcePosting:
			if !w.isNewContent(ctx, raw) {
				continue
			}
			p, err := w.normalizer.Posting(raw)
			if err != nil {
				slog.Warn("normalize posting failed", slog.String("id", raw.ID), slog.Any("error", err))
				continue
			}
			postings = append(postings, p)
		default:
			slog.Warn("unknown record source", slog.String("source", raw.Source), slog.String("id", raw.ID))
		}
	}

	if len(listings) > 0 {
		if err := w.listings.BulkIndex(ctx, listings); err != nil {
			return fmt.Errorf("index listings: %w", err)
		}
		w.markSeen(ctx, seen)
		slog.Info("indexed listings", slog.Int("count", len(listings)))
	}
	if len(postings) > 0 {
		if err := w.postings.BulkIndex(ctx, postings); err != nil {
			return fmt.Errorf("index postings: %w", err)
		}
		slog.Info("indexed postings", slog.Int("count", len(postings)))
	}
	return nil
}

func (w *Worker) isFresh(ctx context.Context, raw *domain.RawRecord) bool {
	if w.dedup == nil {
		return true
	}
	res, err := w.dedup.Check(ctx, raw.Source, raw.ID, raw.Columns["createTime"])
	if err != nil {
		slog.Warn("dedup check failed", slog.String("id", raw.ID), slog.Any("error", err))
		return true
	}
	return res != dedup.ResultUnchanged
}

func (w *Worker) isNewContent(ctx context.Context, raw *domain.RawRecord) bool {
	if w.dedup == nil {
		return true
	}
	ok, err := w.dedup.MarkNewByContent(ctx, raw.Source, raw.Columns)
	if err != nil {
		slog.Warn("dedup content check failed", slog.String("id", raw.ID), slog.Any("error", err))
		return true
	}
	return ok
}

func (w *Worker) markSeen(ctx context.Context, raws []*domain.RawRecord) {
	if w.dedup == nil {
		return
	}
	for _, raw := range raws {
		if err := w.dedup.MarkSeen(ctx, raw.Source, raw.ID, raw.Columns["createTime"]); err != nil {
			slog.Warn("dedup mark failed", slog.String("id", raw.ID), slog.Any("error", err))
		}
	}
}

// PublishBatch processes records in-process, so a Worker can stand in for
// the queue when the loader writes straight into a memory store.
func (w *Worker) PublishBatch(ctx context.Context, records []*domain.RawRecord) error {
	return w.Process(ctx, records)
}

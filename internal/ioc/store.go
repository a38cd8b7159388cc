// Package ioc wires configuration into the concrete backends shared by the
// binaries.
package ioc

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/project-tktt/job-insight/internal/common/geo"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/config"
	"github.com/project-tktt/job-insight/internal/domain"
)

const retryInterval = 2 * time.Second

// Stores holds the listing and posting stores of one backend.
type Stores struct {
	Backend  string
	Listings store.Store[*domain.Listing]
	Postings store.Store[*domain.Posting]

	closeFn func() error
}

func (s *Stores) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// InitStores opens the backend named by cfg.Store.Backend. Postgres and
// Elasticsearch are retried until cfg.Store.ConnectTimeout passes.
func InitStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		return initPostgres(ctx, cfg)
	case config.BackendElasticsearch:
		return initElasticsearch(ctx, cfg)
	case config.BackendMemory:
		return &Stores{
			Backend:  config.BackendMemory,
			Listings: store.NewMemoryStore(store.ListingSchema(cfg.Postgres.ListingTable)),
			Postings: store.NewMemoryStore(store.PostingSchema(cfg.Postgres.PostingTable)),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func initPostgres(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var db *sql.DB
	err := retry(ctx, cfg.Store.ConnectTimeout, retryInterval, func(ctx context.Context) error {
		var err error
		db, err = store.OpenPostgres(ctx, cfg.Postgres.ConnectionString)
		return err
	})
	if err != nil {
		return nil, err
	}

	listings, err := store.NewPostgresStore(ctx, db, store.ListingSchema(cfg.Postgres.ListingTable))
	if err != nil {
		db.Close()
		return nil, err
	}
	postings, err := store.NewPostgresStore(ctx, db, store.PostingSchema(cfg.Postgres.PostingTable))
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("postgres connected",
		slog.String("listings", cfg.Postgres.ListingTable),
		slog.String("postings", cfg.Postgres.PostingTable),
	)
	return &Stores{Backend: config.BackendPostgres, Listings: listings, Postings: postings, closeFn: db.Close}, nil
}

func initElasticsearch(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var client *elasticsearch.Client
	err := retry(ctx, cfg.Store.ConnectTimeout, retryInterval, func(context.Context) error {
		var err error
		client, err = store.NewElasticsearchClient(cfg.Elasticsearch.Addresses)
		return err
	})
	if err != nil {
		return nil, err
	}

	listings := store.NewElasticsearchStore(client, store.ListingSchema(cfg.Elasticsearch.ListingIndex))
	postings := store.NewElasticsearchStore(client, store.PostingSchema(cfg.Elasticsearch.PostingIndex))
	if err := listings.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	if err := postings.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	slog.Info("elasticsearch connected",
		slog.String("listings", cfg.Elasticsearch.ListingIndex),
		slog.String("postings", cfg.Elasticsearch.PostingIndex),
	)
	return &Stores{Backend: config.BackendElasticsearch, Listings: listings, Postings: postings}, nil
}

// retry calls fn until it succeeds, ctx is done or timeout passes. The last
// error is returned.
func retry(ctx context.Context, timeout, interval time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		slog.Warn("backend not ready", slog.Int("attempt", attempt), slog.Any("error", err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("give up after %d attempts: %w", attempt, err)
		case <-time.After(interval):
		}
	}
}

// InitResolver loads the geo tables from cfg.DataDir, or the built-in ones.
func InitResolver(cfg config.GeoConfig) (*geo.Resolver, error) {
	r, err := geo.NewResolverFromDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load geo tables: %w", err)
	}
	return r, nil
}

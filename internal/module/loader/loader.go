// Package loader imports the two CSV sources into the record queue.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/domain"
)

// Publisher accepts batches of raw records. queue.Publisher implements it.
type Publisher interface {
	PublishBatch(ctx context.Context, records []*domain.RawRecord) error
}

// Counter reports how many records a store already holds.
type Counter interface {
	Count(ctx context.Context, p *filter.Predicate) (int64, error)
}

// Source is one CSV file. Columns are positional and named by Fields; the
// first line is a header and is skipped.
type Source struct {
	Name   domain.RecordSource
	Path   string
	Fields []string
	Store  Counter
}

// ListingSource describes the primary CSV, one column per listing field.
func ListingSource(path string, store Counter) Source {
	return Source{Name: domain.SourceListing, Path: path, Fields: domain.ListingFields, Store: store}
}

// PostingSource describes the secondary CSV, which has no id column.
func PostingSource(path string, store Counter) Source {
	return Source{Name: domain.SourcePosting, Path: path, Fields: domain.PostingFields[1:], Store: store}
}

// Stats summarises one source.
type Stats struct {
	Published int
	Skipped   int
}

type Loader struct {
	publisher Publisher
	batchSize int
}

func NewLoader(pub Publisher, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Loader{publisher: pub, batchSize: batchSize}
}

// Load imports every source concurrently. A source whose store already has
// data is left alone.
func (l *Loader) Load(ctx context.Context, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			return l.loadSource(ctx, src)
		})
	}
	return g.Wait()
}

func (l *Loader) loadSource(ctx context.Context, src Source) error {
	log := slog.With(slog.String("source", string(src.Name)), slog.String("path", src.Path))

	if src.Path == "" {
		log.Info("no file configured, skipping")
		return nil
	}
	if src.Store != nil {
		n, err := src.Store.Count(ctx, nil)
		if err != nil {
			return fmt.Errorf("count %s: %w", src.Name, err)
		}
		if n > 0 {
			log.Info("store already populated, skipping", slog.Int64("records", n))
			return nil
		}
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", src.Path, err)
	}
	defer f.Close()

	start := time.Now()
	stats, err := l.Read(ctx, f, src)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name, err)
	}
	log.Info("source loaded",
		slog.Int("published", stats.Published),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", time.Since(start)))
	return nil
}

// Read parses CSV rows from r and publishes them in batches.
func (l *Loader) Read(ctx context.Context, r io.Reader, src Source) (Stats, error) {
	var stats Stats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	batch := make([]*domain.RawRecord, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.publisher.PublishBatch(ctx, batch); err != nil {
			return fmt.Errorf("publish batch: %w", err)
		}
		stats.Published += len(batch)
		batch = make([]*domain.RawRecord, 0, l.batchSize)
		return nil
	}

	now := time.Now()
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			slog.Warn("skip unparseable row", slog.String("source", string(src.Name)), slog.Int("line", line), slog.Any("error", err))
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read line %d: %w", line, err)
		}
		if line == 1 {
			continue
		}
		if len(row) < len(src.Fields) {
			slog.Warn("skip short row",
				slog.String("source", string(src.Name)),
				slog.Int("line", line),
				slog.Int("columns", len(row)),
				slog.Int("want", len(src.Fields)))
			stats.Skipped++
			continue
		}

		batch = append(batch, toRaw(src, line, row, now))
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

func toRaw(src Source, line int, row []string, now time.Time) *domain.RawRecord {
	cols := make(map[string]string, len(src.Fields))
	for i, f := range src.Fields {
		cols[f] = row[i]
	}

	id := cols["id"]
	if domain.ParseInt(id) == 0 {
		id = strconv.Itoa(line - 1)
		cols["id"] = id
	}
	return &domain.RawRecord{
		ID:       id,
		Source:   string(src.Name),
		Line:     line,
		Columns:  cols,
		LoadedAt: now,
	}
}

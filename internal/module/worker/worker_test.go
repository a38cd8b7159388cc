package worker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-insight/internal/common/cleaner"
	"github.com/project-tktt/job-insight/internal/common/dedup"
	"github.com/project-tktt/job-insight/internal/common/normalizer"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/domain"
	"github.com/project-tktt/job-insight/internal/module/loader"
)

type fakeSource struct {
	mu      sync.Mutex
	batches [][]*domain.RawRecord
}

func (f *fakeSource) ConsumeBatch(ctx context.Context, _ int) ([]*domain.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		select {
		case <-ctx.Done():
		case <-time.After(time.Millisecond):
		}
		return nil, nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

type fakeDedup struct {
	versions map[string]string
	contents map[string]bool
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{versions: map[string]string{}, contents: map[string]bool{}}
}

func (f *fakeDedup) Check(_ context.Context, source, id, version string) (dedup.CheckResult, error) {
	v, ok := f.versions[source+id]
	switch {
	case !ok:
		return dedup.ResultNew, nil
	case v != version:
		return dedup.ResultUpdated, nil
	}
	return dedup.ResultUnchanged, nil
}

func (f *fakeDedup) MarkSeen(_ context.Context, source, id, version string) error {
	f.versions[source+id] = version
	return nil
}

func (f *fakeDedup) MarkNewByContent(_ context.Context, source string, cols map[string]string) (bool, error) {
	h := source + dedup.HashColumns(cols)
	if f.contents[h] {
		return false, nil
	}
	f.contents[h] = true
	return true, nil
}

func listingRaw(id, createTime string) *domain.RawRecord {
	return &domain.RawRecord{
		ID:     id,
		Source: string(domain.SourceListing),
		Columns: map[string]string{
			"id":             id,
			"city":           "北京",
			"createTime":     createTime,
			"positionDetail": "<p>熟悉 Go</p>",
		},
	}
}

func postingRaw(id, name string) *domain.RawRecord {
	return &domain.RawRecord{
		ID:      id,
		Source:  string(domain.SourcePosting),
		Columns: map[string]string{"positionName": name},
	}
}

func newTestWorker(src Source, dd Deduper) (*Worker, *store.MemoryStore[*domain.Listing], *store.MemoryStore[*domain.Posting]) {
	listings := store.NewMemoryStore(store.ListingSchema("lagou"))
	postings := store.NewMemoryStore(store.PostingSchema("job"))
	w := NewWorker(src, normalizer.NewNormalizer(), cleaner.NewCleaner(), dd, listings, postings, Config{Concurrency: 2})
	return w, listings, postings
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	w, listings, postings := newTestWorker(nil, nil)

	err := w.Process(ctx, []*domain.RawRecord{
		listingRaw("1", "2020-01-01"),
		postingRaw("1", "Go"),
		{ID: "x", Source: "unknown", Columns: map[string]string{"id": "1"}},
		{ID: "y", Source: string(domain.SourceListing)},
	})
	require.NoError(t, err)

	got, err := listings.Query(ctx, nil, store.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "熟悉 Go", got[0].PositionDetail)

	n, err := postings.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestProcessDeduplicates(t *testing.T) {
	ctx := context.Background()
	w, listings, postings := newTestWorker(nil, newFakeDedup())

	require.NoError(t, w.Process(ctx, []*domain.RawRecord{listingRaw("1", "2020-01-01"), postingRaw("1", "Go")}))

	updated := listingRaw("1", "2020-02-01")
	updated.Columns["city"] = "上海"
	require.NoError(t, w.Process(ctx, []*domain.RawRecord{
		listingRaw("1", "2020-01-01"),
		postingRaw("2", "Go"),
	}))
	got, err := listings.Query(ctx, nil, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, "北京", got[0].City)

	require.NoError(t, w.Process(ctx, []*domain.RawRecord{updated}))
	got, err = listings.Query(ctx, nil, store.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "上海", got[0].City)

	n, err := postings.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRunDrainsSource(t *testing.T) {
	src := &fakeSource{batches: [][]*domain.RawRecord{
		{listingRaw("1", "a"), listingRaw("2", "a")},
		{listingRaw("3", "a")},
	}}
	w, listings, _ := newTestWorker(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		n, _ := listings.Count(context.Background(), nil)
		return n == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestWorkerAsLoaderPublisher(t *testing.T) {
	w, _, postings := newTestWorker(nil, nil)
	csvData := "positionName,workLocation,salary,experienceRequirement,educationRequirement,positionTags,companyName,companyIndustry,companySize,financingStatus\n" +
		"Go开发,北京,20-30K,3-5年,本科,<b>Go</b>,甲公司,互联网,100-499人,A轮\n" +
		"测试,上海,8-12K,1-3年,大专,,乙公司,电商,50-99人,不需要融资\n"

	stats, err := loader.NewLoader(w, 1).Read(context.Background(), strings.NewReader(csvData),
		loader.PostingSource("", postings))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Published)

	got, err := postings.Query(context.Background(), nil, store.Page{OrderBy: "id"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Go开发", got[0].PositionName)
	assert.Equal(t, "Go", got[0].PositionTags)
}

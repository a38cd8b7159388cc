package queue

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-insight/internal/domain"
)

// testRedis connects to REDIS_ADDR (localhost:6379 by default) or skips.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestDecode(t *testing.T) {
	rec, ok := decode(`{"id":"3","source":"lagou","line":4,"columns":{"city":"北京"}}`)
	require.True(t, ok)
	assert.Equal(t, "3", rec.ID)
	assert.Equal(t, 4, rec.Line)
	assert.Equal(t, "北京", rec.Columns["city"])

	_, ok = decode(`{not json`)
	assert.False(t, ok)
}

func TestDefaults(t *testing.T) {
	c := NewConsumer(nil, "", 0)
	assert.Equal(t, defaultQueue, c.queueName)
	assert.NotZero(t, c.timeout)

	p := NewPublisher(nil, "custom")
	assert.Equal(t, "custom", p.queueName)
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	name := fmt.Sprintf("test:records:%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(context.Background(), name) })

	pub := NewPublisher(rdb, name)
	require.NoError(t, pub.PublishBatch(ctx, []*domain.RawRecord{
		{ID: "1", Source: string(domain.SourceListing), Columns: map[string]string{"city": "北京"}},
		{ID: "2", Source: string(domain.SourceListing)},
		{ID: "3", Source: string(domain.SourcePosting)},
	}))
	n, err := pub.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	c := NewConsumer(rdb, name, 100*time.Millisecond)
	got, err := c.ConsumeBatch(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "北京", got[0].Columns["city"])
	assert.Equal(t, "2", got[1].ID)

	got, err = c.ConsumeBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

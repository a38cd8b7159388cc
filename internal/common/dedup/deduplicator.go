package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers which records have already been stored.
type Deduplicator struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewDeduplicator(client *redis.Client, prefix string, ttl time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "dedup"
	}
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Deduplicator{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

type CheckResult int

const (
	// ResultNew means the record was never stored.
	ResultNew CheckResult = iota
	// ResultUpdated means the record was stored with another version.
	ResultUpdated
	ResultUnchanged
)

// Check compares version with the one recorded for (source, id).
func (d *Deduplicator) Check(ctx context.Context, source, id, version string) (CheckResult, error) {
	stored, err := d.client.Get(ctx, d.makeKey(source, id)).Result()
	if err == redis.Nil {
		return ResultNew, nil
	}
	if err != nil {
		return ResultNew, fmt.Errorf("redis get: %w", err)
	}
	if stored != version {
		return ResultUpdated, nil
	}
	return ResultUnchanged, nil
}

// MarkSeen records version for (source, id).
func (d *Deduplicator) MarkSeen(ctx context.Context, source, id, version string) error {
	if err := d.client.Set(ctx, d.makeKey(source, id), version, d.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// MarkNewByContent records the content hash and reports whether it was
// unseen. SETNX makes concurrent workers agree on a single winner.
func (d *Deduplicator) MarkNewByContent(ctx context.Context, source string, cols map[string]string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.makeKey(source, "content:"+HashColumns(cols)), time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (d *Deduplicator) makeKey(source, id string) string {
	return fmt.Sprintf("%s:%s:%s", d.prefix, source, id)
}

// HashColumns hashes the columns in key order.
func HashColumns(cols map[string]string) string {
	keys := make([]string, 0, len(cols))
	for k := range cols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(cols[k])
		b.WriteByte(0)
	}
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:16])
}

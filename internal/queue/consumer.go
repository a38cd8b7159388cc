package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-tktt/job-insight/internal/domain"
)

// Consumer pops raw records from a Redis list.
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

func NewConsumer(client *redis.Client, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = defaultQueue
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// ConsumeBatch blocks until one record is available, then drains up to
// maxBatch-1 more without blocking. An empty batch means the wait timed out.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.RawRecord, error) {
	records := make([]*domain.RawRecord, 0, maxBatch)

	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return records, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}
	if len(result) >= 2 {
		if rec, ok := decode(result[1]); ok {
			records = append(records, rec)
		}
	}

	for i := 1; i < maxBatch; i++ {
		item, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return records, fmt.Errorf("rpop: %w", err)
		}
		if rec, ok := decode(item); ok {
			records = append(records, rec)
		}
	}

	return records, nil
}

func decode(item string) (*domain.RawRecord, bool) {
	var rec domain.RawRecord
	if err := json.Unmarshal([]byte(item), &rec); err != nil {
		slog.Warn("skip malformed queue item", slog.Any("error", err))
		return nil, false
	}
	return &rec, true
}

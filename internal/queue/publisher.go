package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/project-tktt/job-insight/internal/domain"
)

const defaultQueue = "records:raw"

// Publisher pushes raw records onto a Redis list.
type Publisher struct {
	client    *redis.Client
	queueName string
}

func NewPublisher(client *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = defaultQueue
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// PublishBatch pushes records in a single pipeline.
func (p *Publisher) PublishBatch(ctx context.Context, records []*domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		pipe.LPush(ctx, p.queueName, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}
	return nil
}

// QueueLength returns the number of records waiting.
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}

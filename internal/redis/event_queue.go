package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"

	"github.com/redis/go-redis/v9"
)

type EventQueue struct {
	client *redis.Client
	key    string
}

// NewEventQueue returns a FIFO list of report events stored under r.Key("events", name).
func NewEventQueue(r *Redis, name string) *EventQueue {
	return &EventQueue{client: r.Client, key: r.Key("events", name)}
}

func (q *EventQueue) Publish(ctx context.Context, event domain.ReportEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

func (q *EventQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.ReportEvent, error) {
	var ev domain.ReportEvent

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ev, e.ErrQueueEmpty
		}
		return ev, err
	}
	if len(res) < 2 {
		return ev, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return ev, err
	}
	return ev, nil
}

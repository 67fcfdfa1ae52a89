package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink публикует результаты в Redis с пространством имён prefix:
// документ в <prefix>:result:<run_id>, id в списке <prefix>:results,
// событие в канале <prefix>:result_events.
type RedisSink struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSink(opts *redis.Options, prefix string) (*RedisSink, error) {
	if prefix == "" {
		return nil, fmt.Errorf("redis prefix cannot be empty")
	}
	return &RedisSink{rdb: redis.NewClient(opts), prefix: prefix}, nil
}

func (s *RedisSink) Close() error { return s.rdb.Close() }

func (s *RedisSink) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisSink) ResultKey(runID string) string { return s.prefix + ":result:" + runID }
func (s *RedisSink) ListKey() string { return s.prefix + ":results" }
func (s *RedisSink) EventsChannel() string { return s.prefix + ":result_events" }

func (s *RedisSink) Save(ctx context.Context, r TestResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result %q: %w", r.TestName, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.ResultKey(r.RunID), data, 0)
	pipe.RPush(ctx, s.ListKey(), r.RunID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write result to Redis: %w", err)
	}

	if err := s.rdb.Publish(ctx, s.EventsChannel(), data).Err(); err != nil {
		return fmt.Errorf("failed to publish result event: %w", err)
	}
	return nil
}

// List читает результаты в порядке сохранения.
func (s *RedisSink) List(ctx context.Context) ([]TestResult, error) {
	ids, err := s.rdb.LRange(ctx, s.ListKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result list: %w", err)
	}
	out := make([]TestResult, 0, len(ids))
	for _, id := range ids {
		data, err := s.rdb.Get(ctx, s.ResultKey(id)).Bytes()
		if err != nil {
			return nil, fmt.Errorf("failed to read result %s: %w", id, err)
		}
		var r TestResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("corrupt result %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Subscribe подписывается на события новых результатов. Канал закрывается
// при отмене ctx.
func (s *RedisSink) Subscribe(ctx context.Context) (<-chan TestResult, error) {
	pubsub := s.rdb.Subscribe(ctx, s.EventsChannel())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan TestResult)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var r TestResult
				if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

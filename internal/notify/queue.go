package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mail is a queued notification job.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, mail Mail) error
	Consume(ctx context.Context) (<-chan Mail, error)
}

// InMemory is a minimal channel-backed queue for dev/testing.
type InMemory struct {
	ch chan Mail
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Mail, size)}
}

// Publish enqueues a job.
func (q *InMemory) Publish(ctx context.Context, mail Mail) error {
	select {
	case q.ch <- mail:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Mail, error) {
	out := make(chan Mail)
	go func() {
		defer close(out)
		for {
			select {
			case mail := <-q.ch:
				out <- mail
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a simple Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "faceattend:notifications"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a job.
func (q *RedisQueue) Publish(ctx context.Context, mail Mail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Consume streams jobs using BRPOP. Undecodable payloads are dropped.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Mail, error) {
	out := make(chan Mail)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				var mail Mail
				if err := json.Unmarshal([]byte(res[1]), &mail); err == nil {
					out <- mail
				}
			}
		}
	}()
	return out, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/encoding/json"

	"github.com/danielhkuo/group-table/models"
)

// mutateAttempts bounds the optimistic retry loop. Contention on a single
// session is a handful of people tapping at once, so collisions are rare
// and short.
const mutateAttempts = 32

// RedisStore keeps each session as one JSON document under a single key and
// publishes the post-write snapshot on a per-session channel. WATCH/MULTI
// transactions serialize Mutate against concurrent writers.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func sessionKey(id string) string {
	return "grouptable:session:" + id
}

func sessionChannel(id string) string {
	return "grouptable:session:" + id + ":snapshots"
}

func (r *RedisStore) Create(ctx context.Context, s *models.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return r.publish(ctx, s.ID, payload)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSession([]byte(payload))
}

func (r *RedisStore) Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	key := sessionKey(id)
	var result *models.Session

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		next, err := decodeSession([]byte(payload))
		if err != nil {
			return err
		}
		if err := fn(next); err != nil {
			return err
		}
		next.Rev++

		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < mutateAttempts; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			payload, encErr := json.Marshal(result)
			if encErr == nil {
				if pubErr := r.publish(ctx, id, payload); pubErr != nil {
					slog.Warn("failed to publish session snapshot", "session_id", id, "error", pubErr)
				}
			}
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("session %s: too many concurrent writers", id)
}

func (r *RedisStore) Subscribe(ctx context.Context, id string) (<-chan *models.Session, func(), error) {
	initial, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	pubsub := r.client.Subscribe(ctx, sessionChannel(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan *models.Session, subscriberBuffer)
	go func() {
		defer close(out)
		out <- initial
		for msg := range pubsub.Channel() {
			s, err := decodeSession([]byte(msg.Payload))
			if err != nil {
				slog.Warn("discarding undecodable session snapshot", "session_id", id, "error", err)
				continue
			}
			select {
			case out <- s:
			default:
				// Full buffer: evict the oldest snapshot so the newest
				// always lands, terminal writes included.
				select {
				case <-out:
				default:
				}
				out <- s
			}
		}
	}()

	cancel := func() { _ = pubsub.Close() }
	return out, cancel, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) publish(ctx context.Context, id string, payload []byte) error {
	return r.client.Publish(ctx, sessionChannel(id), payload).Err()
}

func decodeSession(payload []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

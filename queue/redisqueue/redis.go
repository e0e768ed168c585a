/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package redisqueue

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	storeerrors "github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/queue"
)

// DefaultPrefix namespaces every key written by the transport.
const DefaultPrefix = "retailstore"

// RedisTransport implements queue.Transport with Redis lists. Messages are
// pushed on the left of "<prefix>:queue:<name>"; Receive moves the oldest one
// into "<prefix>:queue:<name>:processing" and Delete removes it from there.
type RedisTransport struct {
	client redis.Cmdable
	prefix string
}

// NewRedisClient creates a client for addr and db
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisTransport creates a transport. An empty prefix uses DefaultPrefix.
func NewRedisTransport(client redis.Cmdable, prefix string) *RedisTransport {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisTransport{client: client, prefix: prefix}
}

func (t *RedisTransport) registryKey() string { return t.prefix + ":queues" }

func (t *RedisTransport) readyKey(name string) string { return t.prefix + ":queue:" + name }

func (t *RedisTransport) processingKey(name string) string {
	return t.readyKey(name) + ":processing"
}

// CreateQueue records the queue in the registry set. Lists need no creation.
func (t *RedisTransport) CreateQueue(ctx context.Context, name string) error {
	if err := t.client.SAdd(ctx, t.registryKey(), name).Err(); err != nil {
		return storeerrors.NewBackendError("SADD", name, err)
	}
	return nil
}

func (t *RedisTransport) Send(ctx context.Context, name, payload string) error {
	if err := t.ensure(ctx, "LPUSH", name); err != nil {
		return err
	}
	if err := t.client.LPush(ctx, t.readyKey(name), payload).Err(); err != nil {
		return storeerrors.NewBackendError("LPUSH", name, err)
	}
	return nil
}

func (t *RedisTransport) Receive(ctx context.Context, name string) (*queue.Delivery, error) {
	if err := t.ensure(ctx, "RPOPLPUSH", name); err != nil {
		return nil, err
	}
	payload, err := t.client.RPopLPush(ctx, t.readyKey(name), t.processingKey(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, storeerrors.NewBackendError("RPOPLPUSH", name, err)
	}
	return &queue.Delivery{ID: uuid.NewString(), Receipt: payload, Payload: payload}, nil
}

// Delete removes one copy of the payload from the processing list.
func (t *RedisTransport) Delete(ctx context.Context, name string, d *queue.Delivery) error {
	removed, err := t.client.LRem(ctx, t.processingKey(name), 1, d.Receipt).Result()
	if err != nil {
		return storeerrors.NewBackendError("LREM", name, err)
	}
	if removed == 0 {
		return storeerrors.NewBackendError("LREM", name, fmt.Errorf("delivery %s is not in flight", d.ID))
	}
	return nil
}

// Recover moves every message left in the processing list back to the
// consuming end of the queue and returns how many were moved. Recovered
// messages are delivered before anything already pending, oldest first.
// Redis has no visibility timeout, so this runs after a receiver crashed or
// failed to delete a delivery.
func (t *RedisTransport) Recover(ctx context.Context, name string) (int, error) {
	if err := t.ensure(ctx, "LMOVE", name); err != nil {
		return 0, err
	}
	moved := 0
	for {
		// The newest in-flight message lands at the tail first, so the oldest
		// ends up next in line.
		_, err := t.client.LMove(ctx, t.processingKey(name), t.readyKey(name), "LEFT", "RIGHT").Result()
		if err == redis.Nil {
			return moved, nil
		}
		if err != nil {
			return moved, storeerrors.NewBackendError("LMOVE", name, err)
		}
		moved++
	}
}

func (t *RedisTransport) ensure(ctx context.Context, op, name string) error {
	ok, err := t.client.SIsMember(ctx, t.registryKey(), name).Result()
	if err != nil {
		return storeerrors.NewBackendError(op, name, err)
	}
	if !ok {
		return storeerrors.NewBackendError(op, name, fmt.Errorf("queue %q does not exist", name))
	}
	return nil
}

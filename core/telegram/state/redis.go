package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis backed store.
type RedisOptions struct {
	// Prefix namespaces keys, e.g. "journalbot:session:".
	Prefix string
	// TTL expires idle sessions; zero keeps them until deleted.
	TTL time.Duration
}

type redisStore[T any] struct {
	client redis.UniversalClient
	codec  Codec[T]
	opts   RedisOptions
}

// NewRedisStore constructs a Store that keeps sessions in Redis using codec.
func NewRedisStore[T any](client redis.UniversalClient, codec Codec[T], opts RedisOptions) Store[T] {
	if opts.Prefix == "" {
		opts.Prefix = "session:"
	}
	return &redisStore[T]{client: client, codec: codec, opts: opts}
}

func (r *redisStore[T]) key(userID int64) string {
	return r.opts.Prefix + strconv.FormatInt(userID, 10)
}

// Get returns the decoded session or ErrNoSession when the key is missing.
func (r *redisStore[T]) Get(ctx context.Context, userID int64) (T, error) {
	var zero T
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNoSession
	}
	if err != nil {
		return zero, fmt.Errorf("state: redis get: %w", err)
	}
	session, err := r.codec.Unmarshal(data)
	if err != nil {
		return zero, fmt.Errorf("state: decode session: %w", err)
	}
	return session, nil
}

// Put encodes and stores the session, replacing the previous one.
func (r *redisStore[T]) Put(ctx context.Context, userID int64, session T) error {
	data, err := r.codec.Marshal(session)
	if err != nil {
		return fmt.Errorf("state: encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(userID), data, r.opts.TTL).Err(); err != nil {
		return fmt.Errorf("state: redis set: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (r *redisStore[T]) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("state: redis del: %w", err)
	}
	return nil
}

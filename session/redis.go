// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisPrefix = "session:"

// RedisStore keeps sessions in Redis so several instances can share them.
type RedisStore struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping checks that Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "ping redis")
}

func (s *RedisStore) Get(ctx context.Context, token string) (Data, error) {
	raw, err := s.client.Get(ctx, redisPrefix+token).Bytes()
	if err == redis.Nil {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, errors.Wrap(err, "get session")
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, errors.Wrap(err, "decode session")
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, data Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrap(s.client.Set(ctx, redisPrefix+token, raw, ttl).Err(), "set session")
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return errors.Wrap(s.client.Del(ctx, redisPrefix+token).Err(), "delete session")
}

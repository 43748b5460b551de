// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Sessions are lost on restart and
// are not shared between instances.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 15*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (Data, error) {
	v, ok := s.cache.Get(token)
	if !ok {
		return Data{}, ErrNotFound
	}
	return v.(Data), nil
}

func (s *MemoryStore) Set(_ context.Context, token string, data Data, ttl time.Duration) error {
	s.cache.Set(token, data, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// Package cache holds the collection cache the service reads entity lists
// through. Mutations invalidate the touched collection; there is no in-place
// update of cached data.
package cache

import (
	"context"
	"time"
)

type CollectionCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// NoopCollectionCache always misses. It keeps the service code identical
// whether or not redis is configured.
type NoopCollectionCache struct{}

func (NoopCollectionCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCollectionCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopCollectionCache) Invalidate(_ context.Context, _ ...string) error {
	return nil
}

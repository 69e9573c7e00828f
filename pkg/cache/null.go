package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses and writes are dropped, so
// the image list is fetched fresh on each call. It is the backend for
// caching turned off, and the fallback when the configured backend cannot
// be opened.
type NullCache struct{}

// NewNullCache returns a cache that never holds an entry.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}

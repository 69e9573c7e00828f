// Package cache provides byte caches used by the image source client.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON envelope files under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// [Namespace] scopes keys with a prefix and [Instrument] reports hits, misses
// and writes to the registered observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/tileboard/pkg/observability"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value stored under key. The boolean is false on a miss,
	// including expired entries; err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// namespaced prefixes every key with a fixed string.
type namespaced struct {
	inner  Cache
	prefix string
}

// Namespace returns a view of c that prefixes every key with prefix.
// Namespaces nest: Namespace(Namespace(c, "a:"), "b:") uses "a:b:".
func Namespace(c Cache, prefix string) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if prefix == "" {
		return c
	}
	return &namespaced{inner: c, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Close() error { return n.inner.Close() }

// instrumented reports cache traffic to observability.Cache().
type instrumented struct {
	inner   Cache
	keyType string
}

// Instrument wraps c so that every Get and Set is reported to the registered
// cache hooks under keyType.
func Instrument(c Cache, keyType string) Cache {
	return &instrumented{inner: c, keyType: keyType}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := i.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, i.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, i.keyType)
		}
	}
	return data, ok, err
}

func (i *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := i.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, i.keyType, len(data))
	}
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	return i.inner.Delete(ctx, key)
}

func (i *instrumented) Close() error { return i.inner.Close() }

// Package cache stores rendered pack artifacts (SVG, PNG, PDF, JSON bytes)
// keyed by a content hash of the pack configuration and render options.
//
// Re-rendering a pack is deterministic, so cached artifacts never go stale
// on their own; TTLs exist only to bound disk and Redis usage. Three
// backends are provided:
//
//   - [FileCache]: per-user cache directory, used by the CLI
//   - [RedisCache]: shared cache for the serve deployment
//   - [NullCache]: disables caching (--no-cache)
//
// Keys are produced by a [Keyer] so every entry point (CLI, HTTP server)
// derives identical keys for identical work.
package cache

import (
	"context"
	"time"
)

// Default TTLs. Artifacts are cheap to regenerate; these bound storage, not
// correctness.
const (
	// TTLArtifact is how long rendered outputs are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the cached data for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render settings that distinguish one artifact of
// a given pack from another. Every field participates in the cache key.
type ArtifactKeyOpts struct {
	Format   string
	Width    int
	Height   int
	Yaw      float64
	Pitch    float64
	Distance float64
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered output of the pack identified by
	// configHash (see Hash of the normalized config's JSON form).
	ArtifactKey(configHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", configHash, opts)
}

// ScopedKeyer prefixes another Keyer's keys, isolating cache namespaces
// when several deployments share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(configHash, opts)
}

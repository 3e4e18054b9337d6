// Package cache stores computed layouts so that repeated requests for the
// same graph, algorithm and surface size skip the solver.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server)
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes every input that affects
// the result, so two requests share an entry only when the solver would
// produce the same positions.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/lenslayout/pkg/graph"
	"github.com/matzehuels/lenslayout/pkg/observability"
)

// DefaultTTL is how long layout entries live when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists the inputs that change a layout result.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Seed      uint64  `json:"seed"`
	// Settings is the algorithm configuration, hashed as JSON.
	Settings any `json:"settings,omitempty"`
}

// DefaultKeyer hashes graph content and options into "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// Layouts reads and writes [graph.Layout] values through a Cache,
// reporting hits and misses to the observability hooks.
type Layouts struct {
	Cache Cache
	Keyer Keyer
	TTL   time.Duration
}

// NewLayouts wraps c. A nil cache disables caching; a nil keyer uses
// [DefaultKeyer]; a zero ttl uses [DefaultTTL].
func NewLayouts(c Cache, k Keyer, ttl time.Duration) *Layouts {
	if c == nil {
		c = NewNullCache()
	}
	if k == nil {
		k = NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Layouts{Cache: c, Keyer: k, TTL: ttl}
}

// Key returns the cache key for laying out g with opts.
func (l *Layouts) Key(g graph.Graph, opts LayoutKeyOpts) string {
	return l.Keyer.LayoutKey(GraphHash(g), opts)
}

// Get looks up a layout. Undecodable entries are deleted and reported as
// misses.
func (l *Layouts) Get(ctx context.Context, key string) (graph.Layout, bool, error) {
	data, ok, err := l.Cache.Get(ctx, key)
	if err != nil {
		return graph.Layout{}, false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false, nil
	}
	out, err := graph.UnmarshalLayout(data)
	if err != nil {
		_ = l.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false, nil
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return out, true, nil
}

// Set stores a layout.
func (l *Layouts) Set(ctx context.Context, key string, out graph.Layout) error {
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if err := l.Cache.Set(ctx, key, data, l.TTL); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
	return nil
}

// Package cache stores rendered drainplan artifacts between runs.
//
// Drawings and estimates are pure functions of the network description and
// the options used to process it, so the CLI keys each artifact by a hash of
// both and skips the build when nothing changed. [FileCache] backs the CLI;
// [NullCache] disables caching.
//
// # Keys
//
// A [Keyer] turns a source hash and the artifact options into a key:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(src), cache.ArtifactKeyOpts{
//	    Kind:   cache.KindDrawing,
//	    Format: "svg",
//	    Scale:  100,
//	})
//
// [NewScopedKeyer] prefixes every key, which the CLI uses to separate the
// entries written by different releases.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs per artifact kind.
const (
	TTLDrawing  = 30 * 24 * time.Hour
	TTLEstimate = 7 * 24 * time.Hour
	TTLTopology = 30 * 24 * time.Hour
)

// Artifact kinds.
const (
	KindDrawing  = "drawing"
	KindEstimate = "estimate"
	KindTopology = "topology"
)

// ArtifactKeyOpts are the options an artifact depends on besides its source.
type ArtifactKeyOpts struct {
	Kind   string  `json:"kind"`
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`

	DefaultMaterial string `json:"default_material,omitempty"`
	AdjustBoxLength bool   `json:"adjust_box_length,omitempty"`
	DrawDepth       bool   `json:"draw_depth,omitempty"`

	LabelRadius    float64 `json:"label_radius,omitempty"`
	LabelClearance float64 `json:"label_clearance,omitempty"`
	MarkerLength   float64 `json:"marker_length,omitempty"`
	RetryBudget    int     `json:"retry_budget,omitempty"`

	Customer  string  `json:"customer,omitempty"`
	PriceHash string  `json:"price_hash,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
	PNGScale  float64 `json:"png_scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<kind>:<hash>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Kind, sourceHash, opts)
}

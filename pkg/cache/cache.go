// Package cache provides byte-blob caching for the infill pipeline.
//
// Generation and rendering are deterministic in their inputs, so results
// are cached under keys derived from a content hash of the slice stack
// plus the tuning options. Three backends are provided: [NullCache]
// (caching disabled), [FileCache] (local CLI usage), and [RedisCache]
// (shared cache for the HTTP API).
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves data by key. The second return value reports whether
	// the key was found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per entry kind. Generated layers and rendered artifacts are
// pure functions of their key, so the TTLs only bound storage growth.
const (
	// TTLStack is how long an uploaded slice stack is retained.
	TTLStack = 30 * 24 * time.Hour

	// TTLLayers is how long generated layer output is retained.
	TTLLayers = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are retained.
	TTLArtifact = 7 * 24 * time.Hour
)

// LayersKeyOpts are the generation tunables that feed the layers cache
// key. Two runs with equal stack hash and equal opts produce identical
// output.
type LayersKeyOpts struct {
	LineWidth              int64 `json:"line_width"`
	SupportingRadius       int64 `json:"supporting_radius"`
	PruneLength            int64 `json:"prune_length"`
	StraighteningMagnitude int64 `json:"straightening_magnitude"`
}

// ArtifactKeyOpts are the render options that feed the artifact cache
// key.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layer  int    `json:"layer"`
	Width  int    `json:"width"`
}

// Keyer generates cache keys for the pipeline's stages.
type Keyer interface {
	// StackKey generates a key for an uploaded slice stack.
	StackKey(namespace, id string) string

	// LayersKey generates a key for generated layer output.
	LayersKey(stackHash string, opts LayersKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layersHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a kind prefix plus a SHA-256
// hash of the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// StackKey generates a key for an uploaded slice stack.
func (*DefaultKeyer) StackKey(namespace, id string) string {
	return "stack:" + namespace + ":" + id
}

// LayersKey generates a key for generated layer output.
func (*DefaultKeyer) LayersKey(stackHash string, opts LayersKeyOpts) string {
	return hashKey("layers", stackHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (*DefaultKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layersHash, opts)
}

// Package cache provides the byte cache used by the layout pipeline.
//
// Layouts are cached by a hash of the input items plus every option that
// changes geometry; rendered artifacts are cached by a hash of the layout
// plus the render options. Backends:
//
//   - [FileCache] for CLI use
//   - [RedisCache] and [MongoCache] for the HTTP server
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLLayout is how long a computed layout stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the items that change a layout.
type LayoutKeyOpts struct {
	Width              float64 `json:"width"`
	TargetColumnWidth  float64 `json:"target_column_width"`
	GridSpacing        float64 `json:"grid_spacing"`
	TitleReserveHeight float64 `json:"title_reserve_height"`
	DefaultAspect      float64 `json:"default_aspect"`
	MinAspect          float64 `json:"min_aspect"`
}

// ArtifactKeyOpts are the inputs besides the layout that change an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Mode       string `json:"mode"`
	Mobile     bool   `json:"mobile,omitempty"`
	TopicsHash string `json:"topics_hash,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Package cache stores pipeline results between runs.
//
// A [Cache] is a byte store with per-entry TTLs. [Keyer] derives keys from
// content hashes so a changed document or configuration never reads a stale
// entry. Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis server, for the HTTP API
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// [Open] picks a backend from a URL.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Entry lifetimes. Layouts depend only on hashed inputs, so they can live
// long; artifacts are larger and cheap to re-render.
const (
	TTLClassify = 30 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// ClassifyKey is the key of the segment buckets of a document.
	ClassifyKey(docHash string) string

	// LayoutKey is the key of a computed layout.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendered output.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that shape a layout.
type LayoutKeyOpts struct {
	VizType    string `json:"viz_type"`
	ConfigHash string `json:"config_hash"`
}

// ArtifactKeyOpts are the inputs besides the layout that shape an artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	VizType   string `json:"viz_type"`
	ShowEdges bool   `json:"show_edges"`
	Detailed  bool   `json:"detailed"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ClassifyKey returns "classify:<hash>".
func (DefaultKeyer) ClassifyKey(docHash string) string {
	return hashKey("classify", docHash)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

package repository

import (
	"context"

	"github.com/syntaxrag/recall/pkg/model"
)

// SearchOptions controls a similarity search. Threshold is a score
// floor (1 - cosine distance), applied together with Limit. Limit must
// be positive; callers resolve their own defaults.
type SearchOptions struct {
	Limit     int
	Threshold float64
	Date      string // optional YYYY-MM-DD filter on creation day
}

// RecentOptions controls a recency query. Limit must be positive.
type RecentOptions struct {
	Limit int
	Date  string // optional YYYY-MM-DD filter on creation day
}

// Repository defines the interface for memory persistence. It
// exclusively owns persisted state; the pipeline and retrieval engine
// are stateless over it.
type Repository interface {
	// Init idempotently ensures the schema exists. Safe to call on
	// every startup.
	Init(ctx context.Context) error

	// PutMemory inserts one memory atomically and returns the stored
	// record with its generated ID and creation time.
	PutMemory(ctx context.Context, heading, summary string, embedding []float32) (*model.Memory, error)

	// SearchSimilar returns memories whose similarity score is at or
	// above the threshold, descending by score, ties broken by
	// insertion recency. Returns an empty slice when nothing matches
	// and ErrBadLimit when opts.Limit is not positive.
	SearchSimilar(ctx context.Context, embedding []float32, opts SearchOptions) ([]*model.ScoredMemory, error)

	// ListRecent returns the most recently created memories,
	// descending by creation time, ties broken by ID. Returns
	// ErrBadLimit when opts.Limit is not positive.
	ListRecent(ctx context.Context, opts RecentOptions) ([]*model.Memory, error)

	// GetMemory retrieves a memory by ID. Returns ErrMemoryNotFound
	// when no such row exists.
	GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error)

	// DeleteMemory removes a memory and cascades to its tags and
	// metadata. Reports whether a row existed and was removed.
	DeleteMemory(ctx context.Context, id model.MemoryID) (bool, error)

	// AddTag attaches a tag to a memory. Re-adding the same tag is a
	// no-op.
	AddTag(ctx context.Context, id model.MemoryID, tag string) error

	// GetTags returns the tags attached to a memory
	GetTags(ctx context.Context, id model.MemoryID) ([]string, error)

	// PutMetadata attaches a key/value pair to a memory, overwriting
	// the value if the key already exists.
	PutMetadata(ctx context.Context, id model.MemoryID, key, value string) error

	// Stats reports the total memory count and per-day counts for a
	// trailing window.
	Stats(ctx context.Context) (*model.Stats, error)

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error

	// Close releases connection resources
	Close()
}

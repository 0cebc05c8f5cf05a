package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryID string

// NewMemoryID generates a new unique MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Memory represents condensed knowledge distilled from a conversation.
// It is created once by the ingestion pipeline and never mutated in
// place; tags and metadata may be attached after creation.
type Memory struct {
	ID        MemoryID
	Heading   string
	Summary   string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredMemory is a memory with its retrieval score. Score is
// 1 - cosine distance for semantic search, and exactly 0.0 for
// recency-mode results to signal they were not semantically ranked.
type ScoredMemory struct {
	Memory
	Score float64
}

// RetrieveMode selects the retrieval strategy
type RetrieveMode string

const (
	ModeSemantic RetrieveMode = "semantic"
	ModeRecent   RetrieveMode = "recent"
)

// Stats reports aggregate state of the memory store
type Stats struct {
	TotalMemories  int64
	RecentActivity map[string]int64 // day (YYYY-MM-DD) -> memories created
}

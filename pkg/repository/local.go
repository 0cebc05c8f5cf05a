package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
)

// localRepo is an in-process Repository with exact cosine scoring. It
// exists for tests and demo runs without a database; production
// deployments use the PostgreSQL repository, which delegates scoring
// to the pgvector index.
type localRepo struct {
	mu        sync.Mutex
	dimension int
	seq       int64

	memories []*localRecord
	tags     map[model.MemoryID]map[string]struct{}
	metadata map[model.MemoryID]map[string]string
}

type localRecord struct {
	memory model.Memory
	seq    int64
}

// NewLocal creates an in-process repository for the given embedding
// dimension.
func NewLocal(dimension int) Repository {
	return &localRepo{
		dimension: dimension,
		tags:      map[model.MemoryID]map[string]struct{}{},
		metadata:  map[model.MemoryID]map[string]string{},
	}
}

func (r *localRepo) Init(ctx context.Context) error {
	return nil
}

func (r *localRepo) PutMemory(ctx context.Context, heading, summary string, embedding []float32) (*model.Memory, error) {
	if heading == "" {
		return nil, goerr.Wrap(model.ErrEmptyHeading, "cannot store memory")
	}
	if summary == "" {
		return nil, goerr.Wrap(model.ErrEmptySummary, "cannot store memory")
	}
	if len(embedding) != r.dimension {
		return nil, goerr.Wrap(model.ErrBadEmbeddingDim, "cannot store memory",
			goerr.V("expected", r.dimension), goerr.V("actual", len(embedding)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec := &localRecord{
		memory: model.Memory{
			ID:        model.NewMemoryID(),
			Heading:   heading,
			Summary:   summary,
			Embedding: append([]float32(nil), embedding...),
			CreatedAt: time.Now(),
		},
		seq: r.seq,
	}
	r.memories = append(r.memories, rec)

	m := rec.memory
	return &m, nil
}

func (r *localRepo) SearchSimilar(ctx context.Context, embedding []float32, opts SearchOptions) ([]*model.ScoredMemory, error) {
	if opts.Limit <= 0 {
		return nil, goerr.Wrap(model.ErrBadLimit, "cannot search", goerr.V("limit", opts.Limit))
	}
	if len(embedding) != r.dimension {
		return nil, goerr.Wrap(model.ErrBadEmbeddingDim, "cannot search",
			goerr.V("expected", r.dimension), goerr.V("actual", len(embedding)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	type scored struct {
		rec   *localRecord
		score float64
	}

	var candidates []scored
	for _, rec := range r.memories {
		if opts.Date != "" && rec.memory.CreatedAt.Format("2006-01-02") != opts.Date {
			continue
		}
		score := cosineSimilarity(embedding, rec.memory.Embedding)
		if score >= opts.Threshold {
			candidates = append(candidates, scored{rec: rec, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.seq > candidates[j].rec.seq
	})

	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	results := []*model.ScoredMemory{}
	for _, c := range candidates {
		results = append(results, &model.ScoredMemory{
			Memory: c.rec.memory,
			Score:  c.score,
		})
	}
	return results, nil
}

func (r *localRepo) ListRecent(ctx context.Context, opts RecentOptions) ([]*model.Memory, error) {
	if opts.Limit <= 0 {
		return nil, goerr.Wrap(model.ErrBadLimit, "cannot list memories", goerr.V("limit", opts.Limit))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var records []*localRecord
	for _, rec := range r.memories {
		if opts.Date != "" && rec.memory.CreatedAt.Format("2006-01-02") != opts.Date {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].memory.CreatedAt.Equal(records[j].memory.CreatedAt) {
			return records[i].memory.CreatedAt.After(records[j].memory.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})

	if len(records) > opts.Limit {
		records = records[:opts.Limit]
	}

	memories := []*model.Memory{}
	for _, rec := range records {
		m := rec.memory
		memories = append(memories, &m)
	}
	return memories, nil
}

func (r *localRepo) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec := r.find(id); rec != nil {
		m := rec.memory
		return &m, nil
	}
	return nil, goerr.Wrap(model.ErrMemoryNotFound, "failed to get memory", goerr.V("id", id))
}

func (r *localRepo) DeleteMemory(ctx context.Context, id model.MemoryID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.memories {
		if rec.memory.ID == id {
			r.memories = append(r.memories[:i], r.memories[i+1:]...)
			delete(r.tags, id)
			delete(r.metadata, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *localRepo) AddTag(ctx context.Context, id model.MemoryID, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(id) == nil {
		return goerr.Wrap(model.ErrMemoryNotFound, "cannot tag memory", goerr.V("id", id), goerr.T(model.ErrTagStorage))
	}
	if r.tags[id] == nil {
		r.tags[id] = map[string]struct{}{}
	}
	r.tags[id][tag] = struct{}{}
	return nil
}

func (r *localRepo) GetTags(ctx context.Context, id model.MemoryID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tags []string
	for tag := range r.tags[id] {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *localRepo) PutMetadata(ctx context.Context, id model.MemoryID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(id) == nil {
		return goerr.Wrap(model.ErrMemoryNotFound, "cannot attach metadata", goerr.V("id", id), goerr.T(model.ErrTagStorage))
	}
	if r.metadata[id] == nil {
		r.metadata[id] = map[string]string{}
	}
	r.metadata[id][key] = value
	return nil
}

func (r *localRepo) Stats(ctx context.Context) (*model.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.Stats{
		TotalMemories:  int64(len(r.memories)),
		RecentActivity: map[string]int64{},
	}

	cutoff := time.Now().AddDate(0, 0, -statsWindowDays)
	for _, rec := range r.memories {
		if rec.memory.CreatedAt.Before(cutoff) {
			continue
		}
		stats.RecentActivity[rec.memory.CreatedAt.Format("2006-01-02")]++
	}
	return stats, nil
}

func (r *localRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *localRepo) Close() {}

// find must be called with the mutex held
func (r *localRepo) find(id model.MemoryID) *localRecord {
	for _, rec := range r.memories {
		if rec.memory.ID == id {
			return rec
		}
	}
	return nil
}

// cosineSimilarity returns 1 - cosine distance between two vectors of
// equal length. Zero vectors yield a score of 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

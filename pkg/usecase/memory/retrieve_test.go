package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/repository"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
)

// seed stores a memory with a fixed embedding, bypassing the pipeline
func seed(t *testing.T, repo repository.Repository, heading string, embedding []float32) *model.Memory {
	t.Helper()
	stored, err := repo.PutMemory(context.Background(), heading, "summary of "+heading, embedding)
	gt.NoError(t, err)
	return stored
}

func TestRetrieveSemantic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)

	match := seed(t, repo, "pgx pooling", []float32{1, 0})
	seed(t, repo, "unrelated", []float32{0, 1})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Query: "connection pooling"})
	gt.NoError(t, err)
	gt.Equal(t, out.Mode, model.ModeSemantic)
	gt.Equal(t, len(out.Memories), 1)
	gt.Equal(t, out.Memories[0].ID, match.ID)
	gt.True(t, out.Memories[0].Score > 0.99)
}

func TestRetrieveRecent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)

	seed(t, repo, "first", []float32{1, 0})
	second := seed(t, repo, "second", []float32{0, 1})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	// No query selects recency mode
	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{})
	gt.NoError(t, err)
	gt.Equal(t, out.Mode, model.ModeRecent)
	gt.Equal(t, len(out.Memories), 2)
	gt.Equal(t, out.Memories[0].ID, second.ID)

	// Recency results are not semantically ranked
	for _, m := range out.Memories {
		gt.Equal(t, m.Score, 0.0)
	}
}

func TestRetrieveSemanticWithoutQueryFallsBackToRecent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	seed(t, repo, "only", []float32{1, 0})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Mode: model.ModeSemantic})
	gt.NoError(t, err)
	gt.Equal(t, out.Mode, model.ModeRecent)
	gt.Equal(t, len(out.Memories), 1)
}

func TestRetrieveExplicitZeroThreshold(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)

	// Scores ~0.05 against the query vector: below the default floor,
	// but above an explicit zero.
	faint := seed(t, repo, "faint match", []float32{1, 20})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Query: "faint"})
	gt.NoError(t, err)
	gt.Equal(t, len(out.Memories), 0)

	zero := 0.0
	out, err = uc.Retrieve(ctx, memory.RetrieveOptions{Query: "faint", Threshold: &zero})
	gt.NoError(t, err)
	gt.Equal(t, len(out.Memories), 1)
	gt.Equal(t, out.Memories[0].ID, faint.ID)
	gt.True(t, out.Memories[0].Score > 0 && out.Memories[0].Score < memory.DefaultThreshold)
}

func TestRetrieveEmbedFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	seed(t, repo, "stored", []float32{1, 0})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{err: errors.New("provider down")})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Query: "anything"})
	gt.NoError(t, err)
	gt.Equal(t, out.Mode, model.ModeSemantic)
	gt.Equal(t, len(out.Memories), 0)
	gt.NotNil(t, out.Memories)
}

func TestRetrieveSearchFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(4)

	// The query embedding dimension disagrees with the store, which
	// surfaces as a search error and degrades to empty results.
	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Query: "anything"})
	gt.NoError(t, err)
	gt.Equal(t, len(out.Memories), 0)
}

func TestRetrieveDefaultLimit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	for i := 0; i < memory.DefaultLimit+5; i++ {
		seed(t, repo, "m", []float32{1, 0})
	}

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	out, err := uc.Retrieve(ctx, memory.RetrieveOptions{Query: "m"})
	gt.NoError(t, err)
	gt.Equal(t, len(out.Memories), memory.DefaultLimit)
}

func TestFindSimilar(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	stored := seed(t, repo, "duplicate candidate", []float32{1, 0})

	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	similar, err := uc.FindSimilar(ctx, []string{"msg1", "msg2", "msg3", "msg4"})
	gt.NoError(t, err)
	gt.Equal(t, len(similar), 1)
	gt.Equal(t, similar[0].ID, stored.ID)

	// An empty chat log probes nothing
	similar, err = uc.FindSimilar(ctx, nil)
	gt.NoError(t, err)
	gt.Equal(t, len(similar), 0)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	stored := seed(t, repo, "to fetch", []float32{1, 0})
	gt.NoError(t, repo.AddTag(ctx, stored.ID, "fetchable"))

	uc := memory.New(repo, nil, nil)

	mem, tags, err := uc.Get(ctx, stored.ID)
	gt.NoError(t, err)
	gt.Equal(t, mem.Heading, "to fetch")
	gt.Equal(t, tags, []string{"fetchable"})

	deleted, err := uc.Delete(ctx, stored.ID)
	gt.NoError(t, err)
	gt.True(t, deleted)

	_, _, err = uc.Get(ctx, stored.ID)
	gt.True(t, errors.Is(err, model.ErrMemoryNotFound))

	deleted, err = uc.Delete(ctx, stored.ID)
	gt.NoError(t, err)
	gt.Equal(t, deleted, false)
}

func TestPreviewAndCommit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	uc := memory.New(repo, okSummarizer(), &mockEmbedder{vector: []float32{1, 0}})

	preview, err := uc.Preview(ctx, []string{"user: slow query"}, "")
	gt.NoError(t, err)
	gt.Equal(t, preview.Heading, "Index tuning")

	result, err := uc.Commit(ctx, "Edited heading", preview.Summary, []string{"reviewed"}, nil)
	gt.NoError(t, err)
	gt.True(t, result.Steps.Succeeded())

	mem, tags, err := uc.Get(ctx, result.MemoryID)
	gt.NoError(t, err)
	gt.Equal(t, mem.Heading, "Edited heading")
	gt.Equal(t, tags, []string{"reviewed"})
}

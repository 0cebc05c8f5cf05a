package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/repository"
)

const testDimension = 4

func setupPostgres(t *testing.T) repository.Repository {
	dsn := os.Getenv("TEST_RECALL_DSN")
	if dsn == "" {
		t.Skip("TEST_RECALL_DSN must be set to run PostgreSQL tests")
	}

	ctx := context.Background()
	repo, err := repository.NewPostgres(ctx, dsn, testDimension)
	gt.NoError(t, err)
	t.Cleanup(repo.Close)

	gt.NoError(t, repo.Init(ctx))
	return repo
}

func TestPostgresInitIdempotent(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	// Init is called on every startup; a second run against an
	// existing schema must not fail.
	gt.NoError(t, repo.Init(ctx))
	gt.NoError(t, repo.Ping(ctx))
}

func TestPostgresRoundTrip(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	stored, err := repo.PutMemory(ctx, "WAL tuning", "Increased checkpoint distance.", []float32{1, 0, 0, 0})
	gt.NoError(t, err)
	gt.True(t, stored.ID != "")

	defer func() {
		_, _ = repo.DeleteMemory(ctx, stored.ID)
	}()

	got, err := repo.GetMemory(ctx, stored.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Heading, "WAL tuning")
	gt.Equal(t, got.Summary, "Increased checkpoint distance.")
	gt.Equal(t, len(got.Embedding), testDimension)
}

func TestPostgresSearchSimilar(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	stored, err := repo.PutMemory(ctx, "vector search", "pgvector powers retrieval.", []float32{1, 0, 0, 0})
	gt.NoError(t, err)
	defer func() {
		_, _ = repo.DeleteMemory(ctx, stored.ID)
	}()

	results, err := repo.SearchSimilar(ctx, []float32{1, 0, 0, 0}, repository.SearchOptions{Limit: 10, Threshold: 0.9})
	gt.NoError(t, err)

	found := false
	for _, r := range results {
		if r.ID == stored.ID {
			found = true
			gt.True(t, r.Score > 0.99)
		}
	}
	gt.True(t, found)
}

func TestPostgresRejectsNonPositiveLimit(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	// Both backends treat a missing limit the same way
	_, err := repo.SearchSimilar(ctx, []float32{1, 0, 0, 0}, repository.SearchOptions{Threshold: 0.1})
	gt.True(t, errors.Is(err, model.ErrBadLimit))

	_, err = repo.ListRecent(ctx, repository.RecentOptions{})
	gt.True(t, errors.Is(err, model.ErrBadLimit))
}

func TestPostgresDeleteCascades(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	stored, err := repo.PutMemory(ctx, "m", "s", []float32{0, 1, 0, 0})
	gt.NoError(t, err)

	gt.NoError(t, repo.AddTag(ctx, stored.ID, "integration"))
	gt.NoError(t, repo.PutMetadata(ctx, stored.ID, "suite", "postgres"))

	deleted, err := repo.DeleteMemory(ctx, stored.ID)
	gt.NoError(t, err)
	gt.True(t, deleted)

	_, err = repo.GetMemory(ctx, stored.ID)
	gt.True(t, errors.Is(err, model.ErrMemoryNotFound))

	tags, err := repo.GetTags(ctx, stored.ID)
	gt.NoError(t, err)
	gt.Equal(t, len(tags), 0)
}

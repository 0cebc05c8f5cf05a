package memory_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syntaxrag/recall/pkg/repository"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	seed(t, repo, "a", []float32{1, 0})
	seed(t, repo, "b", []float32{0, 1})

	uc := memory.New(repo, nil, nil)

	stats, err := uc.Stats(ctx)
	gt.NoError(t, err)
	gt.Equal(t, stats.TotalMemories, int64(2))
}

func TestCheckHealth(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(2)
	seed(t, repo, "a", []float32{1, 0})

	uc := memory.New(repo, nil, nil)

	health := uc.CheckHealth(ctx)
	gt.True(t, health.Reachable)
	gt.Equal(t, health.TotalMemories, int64(1))
}

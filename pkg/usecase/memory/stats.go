package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
)

// Stats reports the total memory count and per-day ingestion counts
// for the trailing window.
func (u *UseCase) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := u.repo.Stats(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect stats")
	}
	return stats, nil
}

// Health reports store reachability and the total memory count
type Health struct {
	Reachable     bool
	TotalMemories int64
}

// CheckHealth verifies the store is reachable and counts memories
func (u *UseCase) CheckHealth(ctx context.Context) *Health {
	if err := u.repo.Ping(ctx); err != nil {
		return &Health{Reachable: false}
	}

	stats, err := u.repo.Stats(ctx)
	if err != nil {
		return &Health{Reachable: true}
	}

	return &Health{
		Reachable:     true,
		TotalMemories: stats.TotalMemories,
	}
}

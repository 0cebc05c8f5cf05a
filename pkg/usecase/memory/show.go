package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
)

// Get retrieves a single memory by ID together with its tags
func (u *UseCase) Get(ctx context.Context, id model.MemoryID) (*model.Memory, []string, error) {
	m, err := u.repo.GetMemory(ctx, id)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get memory")
	}

	tags, err := u.repo.GetTags(ctx, id)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get tags")
	}

	return m, tags, nil
}

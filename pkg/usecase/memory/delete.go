package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// Delete removes a memory by ID, cascading to its tags and metadata.
// Reports whether a memory existed and was removed.
func (u *UseCase) Delete(ctx context.Context, id model.MemoryID) (bool, error) {
	deleted, err := u.repo.DeleteMemory(ctx, id)
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete memory")
	}

	if deleted {
		logging.From(ctx).Info("memory deleted", "memory_id", id)
	}
	return deleted, nil
}

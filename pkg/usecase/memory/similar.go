package memory

import (
	"context"
	"strings"

	"github.com/syntaxrag/recall/pkg/model"
)

// Duplicate-probe parameters used by the interactive confirmation
// flow. The threshold is stricter than default retrieval so only
// likely duplicates surface.
const (
	probeThreshold = 0.3
	probeLimit     = 5
	probeMessages  = 3
)

// FindSimilar probes the store for memories resembling the start of a
// chat log, before the caller commits to a full ingestion. Probe
// failures degrade to no candidates.
func (u *UseCase) FindSimilar(ctx context.Context, chatLog []string) ([]*model.ScoredMemory, error) {
	if len(chatLog) == 0 {
		return nil, nil
	}

	probe := chatLog
	if len(probe) > probeMessages {
		probe = probe[:probeMessages]
	}

	threshold := probeThreshold
	out, err := u.Retrieve(ctx, RetrieveOptions{
		Query:     strings.Join(probe, " "),
		Limit:     probeLimit,
		Threshold: &threshold,
		Mode:      model.ModeSemantic,
	})
	if err != nil {
		return nil, err
	}
	return out.Memories, nil
}

package memory

import (
	"context"

	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/repository"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// RetrieveOptions contains options for retrieving memories. A zero
// Limit takes the engine default; a nil Threshold takes the default
// score floor, while an explicit zero is honored verbatim.
type RetrieveOptions struct {
	Query     string
	Limit     int
	Threshold *float64
	Mode      model.RetrieveMode // empty: semantic when Query is set, recent otherwise
	Date      string             // optional YYYY-MM-DD filter
}

// RetrieveOutput is the uniform result shape across retrieval modes
type RetrieveOutput struct {
	Memories []*model.ScoredMemory
	Mode     model.RetrieveMode
}

// Retrieve ranks stored memories against the query. Semantic mode
// embeds the query and delegates scoring to the store's vector index;
// recent mode returns the newest memories with a score of exactly 0.0.
// Retrieval never fails the caller because ranking could not be
// computed: provider and store failures degrade to an empty result.
func (u *UseCase) Retrieve(ctx context.Context, opts RetrieveOptions) (*RetrieveOutput, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	threshold := DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	mode := opts.Mode
	if mode == "" {
		if opts.Query != "" {
			mode = model.ModeSemantic
		} else {
			mode = model.ModeRecent
		}
	}
	if mode == model.ModeSemantic && opts.Query == "" {
		mode = model.ModeRecent
	}

	logger := logging.From(ctx)

	if mode == model.ModeSemantic {
		queryEmbedding, err := u.embedder.Embed(ctx, opts.Query)
		if err != nil {
			logger.Warn("failed to embed query, returning empty results", "error", err)
			return &RetrieveOutput{Memories: []*model.ScoredMemory{}, Mode: mode}, nil
		}

		memories, err := u.repo.SearchSimilar(ctx, queryEmbedding, repository.SearchOptions{
			Limit:     opts.Limit,
			Threshold: threshold,
			Date:      opts.Date,
		})
		if err != nil {
			logger.Error("similarity search failed, returning empty results", "error", err)
			return &RetrieveOutput{Memories: []*model.ScoredMemory{}, Mode: mode}, nil
		}

		return &RetrieveOutput{Memories: memories, Mode: mode}, nil
	}

	recent, err := u.repo.ListRecent(ctx, repository.RecentOptions{
		Limit: opts.Limit,
		Date:  opts.Date,
	})
	if err != nil {
		logger.Error("recency query failed, returning empty results", "error", err)
		return &RetrieveOutput{Memories: []*model.ScoredMemory{}, Mode: mode}, nil
	}

	memories := make([]*model.ScoredMemory, 0, len(recent))
	for _, m := range recent {
		memories = append(memories, &model.ScoredMemory{Memory: *m, Score: 0.0})
	}
	return &RetrieveOutput{Memories: memories, Mode: mode}, nil
}

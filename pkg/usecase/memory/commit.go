package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/service/summary"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// Preview runs only the summarization step so an operator can inspect
// and edit the generated heading and summary before committing.
func (u *UseCase) Preview(ctx context.Context, chatLog []string, contextNote string) (*summary.Result, error) {
	if len(chatLog) == 0 {
		return nil, goerr.Wrap(model.ErrEmptyChatLog, "cannot preview")
	}

	sum, err := u.summarizer.Summarize(ctx, chatLog, contextNote)
	if err != nil {
		return nil, err
	}
	if sum.Degraded && !u.allowDegraded {
		return nil, goerr.New("summarization degraded to fallback",
			goerr.V("reason", sum.Reason), goerr.T(model.ErrTagExternalService))
	}
	return sum, nil
}

// Commit stores an already-approved heading and summary, running the
// embed and store steps of the pipeline. The summarize step is
// reported completed since its output was reviewed by the caller.
func (u *UseCase) Commit(ctx context.Context, heading, summary string, tags []string, metadata map[string]string) (*model.IngestResult, error) {
	result := &model.IngestResult{
		Heading: heading,
		Summary: summary,
		Steps:   model.NewPipelineStatus(),
	}

	if heading == "" {
		return result, goerr.Wrap(model.ErrEmptyHeading, "cannot commit memory")
	}
	if summary == "" {
		return result, goerr.Wrap(model.ErrEmptySummary, "cannot commit memory")
	}
	result.Steps.Complete(model.StepSummarize)

	embedded, err := u.embedder.Embed(ctx, heading+"\n\n"+summary)
	if err != nil {
		result.Steps.Fail(model.StepEmbed, err)
		return result, goerr.Wrap(err, "embedding generation failed")
	}
	result.Steps.Complete(model.StepEmbed)
	result.EmbeddingDim = len(embedded)

	stored, err := u.repo.PutMemory(ctx, heading, summary, embedded)
	if err != nil {
		result.Steps.Fail(model.StepStore, err)
		return result, goerr.Wrap(err, "storage failed")
	}
	result.Steps.Complete(model.StepStore)
	result.MemoryID = stored.ID

	logger := logging.From(ctx)
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := u.repo.AddTag(ctx, stored.ID, tag); err != nil {
			logger.Warn("failed to attach tag", "memory_id", stored.ID, "tag", tag, "error", err)
		}
	}
	for key, value := range metadata {
		if err := u.repo.PutMetadata(ctx, stored.ID, key, value); err != nil {
			logger.Warn("failed to attach metadata", "memory_id", stored.ID, "key", key, "error", err)
		}
	}

	return result, nil
}

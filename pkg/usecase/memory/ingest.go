package memory

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// Ingest runs the three-step pipeline: summarize, embed, store. Each
// step failure is terminal; the returned result always carries the
// per-step status map and whatever was computed before the failure so
// the caller can retry manually. A memory becomes visible in the store
// only when all three steps complete.
func (u *UseCase) Ingest(ctx context.Context, input *model.IngestInput) (*model.IngestResult, error) {
	result := &model.IngestResult{
		Steps: model.NewPipelineStatus(),
	}

	if len(input.ChatLog) == 0 {
		return result, goerr.Wrap(model.ErrEmptyChatLog, "ingestion rejected")
	}

	if u.gate != nil {
		reasons, err := u.gate.Review(ctx, input)
		if err != nil {
			return result, goerr.Wrap(err, "ingest policy evaluation failed")
		}
		if len(reasons) > 0 {
			return result, goerr.New("ingestion rejected by policy",
				goerr.V("reasons", reasons), goerr.T(model.ErrTagValidation))
		}
	}

	logger := logging.From(ctx)

	// Step 1: summarize
	logger.Info("memory pipeline: summarizing chat", "messages", len(input.ChatLog))
	sum, err := u.summarizer.Summarize(ctx, input.ChatLog, input.Context)
	if err != nil {
		result.Steps.Fail(model.StepSummarize, err)
		return result, goerr.Wrap(err, "summarization failed")
	}
	if sum.Degraded && !u.allowDegraded {
		err := goerr.New("summarization degraded to fallback",
			goerr.V("reason", sum.Reason), goerr.T(model.ErrTagExternalService))
		result.Steps.Fail(model.StepSummarize, err)
		return result, err
	}
	result.Steps.Complete(model.StepSummarize)
	result.Heading = sum.Heading
	result.Summary = sum.Summary

	// Step 2: embed the condensed meaning, not the raw chat
	logger.Info("memory pipeline: generating embedding")
	textToEmbed := sum.Heading + "\n\n" + sum.Summary
	embedded, err := u.embedder.Embed(ctx, textToEmbed)
	if err != nil {
		result.Steps.Fail(model.StepEmbed, err)
		return result, goerr.Wrap(err, "embedding generation failed")
	}
	result.Steps.Complete(model.StepEmbed)
	result.EmbeddingDim = len(embedded)

	// Step 3: store
	logger.Info("memory pipeline: storing memory")
	stored, err := u.repo.PutMemory(ctx, sum.Heading, sum.Summary, embedded)
	if err != nil {
		result.Steps.Fail(model.StepStore, err)
		return result, goerr.Wrap(err, "storage failed")
	}
	result.Steps.Complete(model.StepStore)
	result.MemoryID = stored.ID

	// Tags and metadata are attached after the memory is committed; a
	// failure here does not undo the stored memory.
	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag == "" {
			continue
		}
		if err := u.repo.AddTag(ctx, stored.ID, tag); err != nil {
			logger.Warn("failed to attach tag", "memory_id", stored.ID, "tag", tag, "error", err)
		}
	}
	for key, value := range input.Metadata {
		if err := u.repo.PutMetadata(ctx, stored.ID, key, value); err != nil {
			logger.Warn("failed to attach metadata", "memory_id", stored.ID, "key", key, "error", err)
		}
	}

	logger.Info("memory pipeline completed", "memory_id", stored.ID, "heading", stored.Heading)
	return result, nil
}

package memory

import (
	"context"

	"github.com/syntaxrag/recall/pkg/policy"
	"github.com/syntaxrag/recall/pkg/repository"
	"github.com/syntaxrag/recall/pkg/service/embedding"
	"github.com/syntaxrag/recall/pkg/service/summary"
)

// Default retrieval parameters
const (
	DefaultLimit     = 10
	DefaultThreshold = 0.1
)

// Summarizer produces a (heading, summary) pair from a chat transcript
type Summarizer interface {
	Summarize(ctx context.Context, chatLog []string, contextNote string) (*summary.Result, error)
}

// Embedder converts text into an embedding vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// UseCase provides memory ingestion and retrieval operations. It holds
// no persistent state of its own; all durable state lives in the
// repository.
type UseCase struct {
	repo       repository.Repository
	summarizer Summarizer
	embedder   Embedder
	gate       *policy.Gate

	allowDegraded bool
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithGate installs a Rego ingest gate evaluated before the pipeline
func WithGate(g *policy.Gate) Option {
	return func(uc *UseCase) {
		uc.gate = g
	}
}

// WithDegradedSummaries accepts fallback summaries produced when the
// summarization provider is unreachable, instead of failing the
// pipeline.
func WithDegradedSummaries() Option {
	return func(uc *UseCase) {
		uc.allowDegraded = true
	}
}

// New creates a new memory UseCase instance
func New(
	repo repository.Repository,
	summarizer Summarizer,
	embedder Embedder,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:       repo,
		summarizer: summarizer,
		embedder:   embedder,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

var _ Summarizer = (*summary.Summarizer)(nil)
var _ Embedder = (*embedding.Embedder)(nil)

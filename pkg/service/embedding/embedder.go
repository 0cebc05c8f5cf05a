package embedding

import (
	"context"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/adapter"
	"github.com/syntaxrag/recall/pkg/model"
)

const defaultTimeout = time.Minute

// Embedder converts text into a fixed-length vector via the Gemini
// adapter. Stored and query vectors go through the same instance so
// they share the same unit scale.
type Embedder struct {
	gemini    adapter.Gemini
	timeout   time.Duration
	normalize bool
	dimension int
}

type Option func(*Embedder)

// WithTimeout overrides the request-scoped timeout for provider calls
func WithTimeout(d time.Duration) Option {
	return func(e *Embedder) {
		e.timeout = d
	}
}

// WithoutNormalization disables L2 normalization of returned vectors
func WithoutNormalization() Option {
	return func(e *Embedder) {
		e.normalize = false
	}
}

// New creates an Embedder expecting vectors of the given dimension
func New(gemini adapter.Gemini, dimension int, opts ...Option) *Embedder {
	e := &Embedder{
		gemini:    gemini,
		timeout:   defaultTimeout,
		normalize: true,
		dimension: dimension,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the embedding vector for the given text. Empty text is
// rejected before any remote call.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, goerr.Wrap(model.ErrEmptyText, "cannot embed")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.gemini.Embedding(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "embedding provider failed")
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.New("embedding provider returned no vector", goerr.T(model.ErrTagExternalService))
	}

	vector := resp.Embeddings[0].Values
	if e.dimension > 0 && len(vector) != e.dimension {
		return nil, goerr.New("embedding provider returned unexpected dimension",
			goerr.V("expected", e.dimension), goerr.V("actual", len(vector)),
			goerr.T(model.ErrTagExternalService))
	}

	if e.normalize {
		vector = Normalize(vector)
	}
	return vector, nil
}

// Normalize divides a vector by its Euclidean norm so cosine
// similarity is computed on the unit scale. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

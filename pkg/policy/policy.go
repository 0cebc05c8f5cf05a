package policy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// Gate evaluates operator-supplied Rego policies before a memory is
// ingested. Policies live under `package memory` and populate a `deny`
// set of reason strings; an empty set means the ingestion may proceed.
// With no policy files the gate allows everything.
type Gate struct {
	query *rego.PreparedEvalQuery
}

// NewGate loads all .rego files from policyDir and prepares the
// data.memory query. An empty or missing directory yields an
// allow-all gate.
func NewGate(ctx context.Context, policyDir string) (*Gate, error) {
	if policyDir == "" {
		return &Gate{}, nil
	}

	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files")
	}
	if len(files) == 0 {
		return &Gate{}, nil
	}

	options := []func(*rego.Rego){rego.Query("data.memory")}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare policy query")
	}

	logging.From(ctx).Debug("ingest policy loaded", "files", len(files))
	return &Gate{query: &prepared}, nil
}

// Review evaluates the gate against one ingestion request and returns
// the deny reasons. An empty slice means the request is allowed.
func (g *Gate) Review(ctx context.Context, input *model.IngestInput) ([]string, error) {
	if g == nil || g.query == nil {
		return nil, nil
	}

	doc := map[string]any{
		"chat_log": input.ChatLog,
		"context":  input.Context,
		"tags":     input.Tags,
	}

	rs, err := g.query.Eval(ctx, rego.EvalInput(doc))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate ingest policy")
	}

	var reasons []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			memoryDoc, ok := expr.Value.(map[string]any)
			if !ok {
				continue
			}
			denies, ok := memoryDoc["deny"].([]any)
			if !ok {
				continue
			}
			for _, d := range denies {
				if reason, ok := d.(string); ok {
					reasons = append(reasons, reason)
				}
			}
		}
	}

	return reasons, nil
}

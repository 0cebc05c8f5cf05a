package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// retrieveDefaultLimit is the tool-surface default, stricter than the
// engine default so agent prompts stay small.
const retrieveDefaultLimit = 5

type ingestParams struct {
	ChatLog  []string          `json:"chat_log"`
	Context  string            `json:"context,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ingestResponse struct {
	MemoryID      string               `json:"memory_id,omitempty"`
	Heading       string               `json:"heading,omitempty"`
	Summary       string               `json:"summary,omitempty"`
	EmbeddingDim  int                  `json:"embedding_dimension,omitempty"`
	PipelineSteps model.PipelineStatus `json:"pipeline_steps"`
	Success       bool                 `json:"success"`
	Error         string               `json:"error,omitempty"`
}

type retrieveParams struct {
	Query      string   `json:"query,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Threshold  *float64 `json:"similarity_threshold,omitempty"`
	Mode       string   `json:"mode,omitempty"`
	DateFilter string   `json:"date_filter,omitempty"`
}

type memoryPayload struct {
	ID        string  `json:"id"`
	Heading   string  `json:"heading"`
	Summary   string  `json:"summary"`
	CreatedAt string  `json:"created_at"`
	Score     float64 `json:"similarity_score"`
}

type retrieveResponse struct {
	Memories   []memoryPayload `json:"memories"`
	TotalFound int             `json:"total_found"`
	ModeUsed   string          `json:"mode_used"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
}

type statsResponse struct {
	Reachable      bool             `json:"reachable"`
	TotalMemories  int64            `json:"total_memories"`
	RecentActivity map[string]int64 `json:"recent_activity,omitempty"`
	Success        bool             `json:"success"`
	Error          string           `json:"error,omitempty"`
}

func ingestMemoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "ingest_memory",
		Description: "Summarize a chat log and store it as a searchable memory. " +
			"Runs the full pipeline: summarize, embed, store.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"chat_log": {
					Type:        "array",
					Description: "Ordered chat messages to condense into a memory",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"context": {
					Type:        "string",
					Description: "Optional note on where or why this conversation happened",
				},
				"tags": {
					Type:        "array",
					Description: "Keywords for categorizing the memory",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"metadata": {
					Type:                 "object",
					Description:          "Additional key/value metadata",
					AdditionalProperties: &jsonschema.Schema{Type: "string"},
				},
			},
			Required: []string{"chat_log"},
		},
	}
}

func retrieveMemoriesTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "retrieve_memories",
		Description: "Retrieve stored memories relevant to a query using vector " +
			"similarity, or the most recent memories when no query is given.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Free-text description of what to search for",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of memories to return (default 5)",
				},
				"similarity_threshold": {
					Type:        "number",
					Description: "Minimum similarity score, 0.0-1.0 (default 0.1)",
				},
				"mode": {
					Type:        "string",
					Description: "Retrieval mode",
					Enum:        []any{"semantic", "recent"},
				},
				"date_filter": {
					Type:        "string",
					Description: "Restrict results to memories created on this day (YYYY-MM-DD)",
				},
			},
		},
	}
}

func memoryStatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "memory_stats",
		Description: "Report store reachability, total memory count, and recent ingestion activity.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}
}

func (s *Server) handleIngest(ctx context.Context, req *mcp.CallToolRequest, params *ingestParams) (*mcp.CallToolResult, any, error) {
	result, err := s.uc.Ingest(ctx, &model.IngestInput{
		ChatLog:  params.ChatLog,
		Context:  params.Context,
		Tags:     params.Tags,
		Metadata: params.Metadata,
	})

	resp := ingestResponse{
		MemoryID:      string(result.MemoryID),
		Heading:       result.Heading,
		Summary:       result.Summary,
		EmbeddingDim:  result.EmbeddingDim,
		PipelineSteps: result.Steps,
		Success:       err == nil,
	}
	if err != nil {
		logging.From(ctx).Warn("ingest_memory failed", "error", err)
		resp.Error = err.Error()
	}

	return jsonResult(resp)
}

func (s *Server) handleRetrieve(ctx context.Context, req *mcp.CallToolRequest, params *retrieveParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = retrieveDefaultLimit
	}

	// An explicit threshold of 0.0 is honored; only an omitted one
	// takes the engine default.
	out, err := s.uc.Retrieve(ctx, memory.RetrieveOptions{
		Query:     params.Query,
		Limit:     limit,
		Threshold: params.Threshold,
		Mode:      model.RetrieveMode(params.Mode),
		Date:      params.DateFilter,
	})
	if err != nil {
		logging.From(ctx).Warn("retrieve_memories failed", "error", err)
		return jsonResult(retrieveResponse{
			Memories: []memoryPayload{},
			Error:    err.Error(),
		})
	}

	resp := retrieveResponse{
		Memories:   make([]memoryPayload, 0, len(out.Memories)),
		TotalFound: len(out.Memories),
		ModeUsed:   string(out.Mode),
		Success:    true,
	}
	for _, m := range out.Memories {
		resp.Memories = append(resp.Memories, memoryPayload{
			ID:        string(m.ID),
			Heading:   m.Heading,
			Summary:   m.Summary,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
			Score:     m.Score,
		})
	}

	return jsonResult(resp)
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, params *struct{}) (*mcp.CallToolResult, any, error) {
	health := s.uc.CheckHealth(ctx)
	resp := statsResponse{
		Reachable:     health.Reachable,
		TotalMemories: health.TotalMemories,
		Success:       health.Reachable,
	}
	if !health.Reachable {
		resp.Error = "memory store is not reachable"
	}

	if health.Reachable {
		if stats, err := s.uc.Stats(ctx); err == nil {
			resp.RecentActivity = stats.RecentActivity
		}
	}

	return jsonResult(resp)
}

// jsonResult renders a response struct as both text content and
// structured content.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, v, nil
}

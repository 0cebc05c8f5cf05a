package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/syntaxrag/recall/pkg/model"
)

// printPipeline renders the per-step outcome of one ingestion run
func printPipeline(w io.Writer, result *model.IngestResult) {
	for _, step := range []model.PipelineStep{model.StepSummarize, model.StepEmbed, model.StepStore} {
		st := result.Steps[step]
		if st == nil {
			continue
		}
		line := fmt.Sprintf("  %-9s %s", step, st.State)
		if st.Error != "" {
			line += ": " + st.Error
		}
		fmt.Fprintln(w, line)
	}
	if result.MemoryID != "" {
		fmt.Fprintf(w, "\nStored memory %s\n", result.MemoryID)
		fmt.Fprintf(w, "  Heading: %s\n", result.Heading)
	}
}

// printMemory renders one retrieval hit. Recency-mode results carry a
// score of exactly 0.0 and the score column is omitted for them.
func printMemory(w io.Writer, m *model.ScoredMemory, withScore bool) {
	if withScore {
		fmt.Fprintf(w, "%s  [%.4f]  %s\n", m.ID, m.Score, m.Heading)
	} else {
		fmt.Fprintf(w, "%s  %s\n", m.ID, m.Heading)
	}
	fmt.Fprintf(w, "  %s  %s\n", m.CreatedAt.Format("2006-01-02 15:04"), firstLine(m.Summary))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

package summary

import (
	"regexp"
	"strings"
)

// DefaultHeading is used when no heading can be recovered from the
// provider response.
const DefaultHeading = "Technical Discussion Summary"

// ordinalPrefix matches a leading list ordinal such as "1." or "2)"
var ordinalPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// parseResponse extracts (heading, summary) from a raw provider
// response. The response is expected to contain "heading:" and
// "summary:" markers (case-insensitive, tolerant of a leading
// ordinal), but the parser recovers from any shape:
//   - no heading marker: the first non-empty line becomes the heading
//   - no summary marker: the entire raw response becomes the summary
//   - both empty: heading falls back to DefaultHeading, summary to the
//     raw response
func parseResponse(raw string) (string, string) {
	var (
		heading      string
		summaryLines []string
		inSummary    bool
		sawSummary   bool
		firstLine    string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if firstLine == "" {
			firstLine = line
		}

		stripped := ordinalPrefix.ReplaceAllString(line, "")
		lower := strings.ToLower(stripped)

		switch {
		case strings.HasPrefix(lower, "heading:"):
			heading = strings.TrimSpace(stripped[len("heading:"):])
			inSummary = false
		case strings.HasPrefix(lower, "summary:"):
			sawSummary = true
			inSummary = true
			if rest := strings.TrimSpace(stripped[len("summary:"):]); rest != "" {
				summaryLines = append(summaryLines, rest)
			}
		case inSummary:
			summaryLines = append(summaryLines, line)
		}
	}

	summary := strings.Join(summaryLines, "\n")
	if !sawSummary {
		summary = strings.TrimSpace(raw)
	}
	if heading == "" {
		heading = firstLine
	}

	if heading == "" {
		heading = DefaultHeading
	}
	if summary == "" {
		summary = strings.TrimSpace(raw)
	}

	return heading, summary
}

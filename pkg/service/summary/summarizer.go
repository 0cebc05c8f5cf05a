package summary

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/adapter"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/utils/logging"
	"google.golang.org/genai"
)

//go:embed prompt/summarize.md
var systemPromptRaw string

// FallbackHeading is the heading of a degraded summary produced when
// the provider is unreachable.
const FallbackHeading = "Developer Chat Summary"

// defaultTimeout is generous to accommodate slow summarization of long
// transcripts.
const defaultTimeout = 2 * time.Minute

// Result is the outcome of one summarization. Degraded is set when the
// provider failed and deterministic fallback text was used instead;
// the caller decides whether a degraded memory is acceptable.
type Result struct {
	Heading  string
	Summary  string
	Degraded bool
	Reason   string
}

// Summarizer condenses a chat transcript into a (heading, summary)
// pair via the Gemini adapter.
type Summarizer struct {
	gemini  adapter.Gemini
	timeout time.Duration
}

type Option func(*Summarizer)

// WithTimeout overrides the request-scoped timeout for provider calls
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

func New(gemini adapter.Gemini, opts ...Option) *Summarizer {
	s := &Summarizer{
		gemini:  gemini,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize joins the chat log into a transcript and asks the provider
// for a heading and summary. A remote failure never propagates as an
// error: the result degrades to deterministic fallback text stating
// the message count and failure reason.
func (s *Summarizer) Summarize(ctx context.Context, chatLog []string, contextNote string) (*Result, error) {
	if len(chatLog) == 0 {
		return nil, goerr.Wrap(model.ErrEmptyChatLog, "cannot summarize")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userPrompt := buildUserPrompt(chatLog, contextNote)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPromptRaw, ""),
		Temperature:       genai.Ptr[float32](0.3),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Warn("summarization provider failed, using fallback", "error", err)
		return &Result{
			Heading:  FallbackHeading,
			Summary:  fmt.Sprintf("Chat log with %d messages. Failed to generate summary: %v", len(chatLog), err),
			Degraded: true,
			Reason:   err.Error(),
		}, nil
	}

	heading, body := parseResponse(responseText(resp))
	return &Result{Heading: heading, Summary: body}, nil
}

func buildUserPrompt(chatLog []string, contextNote string) string {
	var sb strings.Builder
	sb.WriteString("Please summarize this developer conversation:\n\n")
	sb.WriteString("Context: ")
	sb.WriteString(contextNote)
	sb.WriteString("\n\nChat Log:\n")
	sb.WriteString(strings.Join(chatLog, "\n"))
	sb.WriteString("\n\nProvide:\n")
	sb.WriteString("1. Heading: A brief title summarizing the main technical topic\n")
	sb.WriteString("2. Summary: A detailed summary of technical insights and code changes discussed\n")
	return sb.String()
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

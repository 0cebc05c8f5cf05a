package summary

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		heading string
		summary string
	}{
		{
			name:    "marker format",
			raw:     "Heading: Fix flaky retry test\nSummary: The retry loop used a shared timer.",
			heading: "Fix flaky retry test",
			summary: "The retry loop used a shared timer.",
		},
		{
			name:    "ordinal prefixes",
			raw:     "1. Heading: Connection pooling\n2) Summary: Switched the driver to a pool.",
			heading: "Connection pooling",
			summary: "Switched the driver to a pool.",
		},
		{
			name:    "case insensitive markers",
			raw:     "HEADING: Cache invalidation\nsummary: TTL was never refreshed.",
			heading: "Cache invalidation",
			summary: "TTL was never refreshed.",
		},
		{
			name:    "multi-line summary",
			raw:     "Heading: Index tuning\nSummary: Added a composite index.\nQuery time dropped.",
			heading: "Index tuning",
			summary: "Added a composite index.\nQuery time dropped.",
		},
		{
			name:    "no heading marker uses first line",
			raw:     "Debugging session notes\nSummary: Traced a goroutine leak.",
			heading: "Debugging session notes",
			summary: "Traced a goroutine leak.",
		},
		{
			name:    "no summary marker uses raw text",
			raw:     "Heading: Release checklist\nWe walked the deploy steps.",
			heading: "Release checklist",
			summary: "Heading: Release checklist\nWe walked the deploy steps.",
		},
		{
			name:    "no markers at all",
			raw:     "Just a plain paragraph about the outage.",
			heading: "Just a plain paragraph about the outage.",
			summary: "Just a plain paragraph about the outage.",
		},
		{
			name:    "summary marker with empty body falls back to raw",
			raw:     "Heading: Empty body\nSummary:",
			heading: "Empty body",
			summary: "Heading: Empty body\nSummary:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heading, summary := parseResponse(tt.raw)
			gt.Equal(t, heading, tt.heading)
			gt.Equal(t, summary, tt.summary)
		})
	}
}

func TestParseResponseEmpty(t *testing.T) {
	heading, summary := parseResponse("")
	gt.Equal(t, heading, DefaultHeading)
	gt.Equal(t, summary, "")
}

package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Span placeholders use Unicode Private Use Area characters.
// They never appear in rule patterns, so a protected region passes
// through every rewrite rule untouched until restoration.
const (
	SpanStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	SpanEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Placeholder characters smuggled in by the input
	placeholderRunes = regexp.MustCompile(`[\x{E000}\x{E001}]`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// ChatPreprocessor prepares a raw AI message buffer for the stream engine.
type ChatPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare a message for formatting.
// Order matters: the quote pair is judged on the raw buffer, before any rewriting.
func (p *ChatPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = stripWrappingQuotes(content)
	content = normalizeLineEndings(content)
	content = scrubPlaceholders(content)
	return content
}

// stripWrappingQuotes removes exactly one pair of double quotes wrapping the
// whole text. It does not recurse: `"a" "b"` becomes `a" "b`.
func stripWrappingQuotes(content string) string {
	if len(content) >= 2 && strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`) {
		return content[1 : len(content)-1]
	}
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// scrubPlaceholders replaces placeholder characters with U+FFFD so input
// cannot forge a protected span.
func scrubPlaceholders(content string) string {
	return placeholderRunes.ReplaceAllString(content, "\uFFFD")
}

package pipeline

import (
	"context"
)

// StreamConverter is the rewrite pipeline for partial AI messages.
// It holds no per-call state and is safe for concurrent use.
type StreamConverter struct {
	preprocessor MarkdownPreprocessor
	rules        *RuleSet
	code         CodeRenderer
	preEscaped   bool
}

// StreamOption configures a StreamConverter.
type StreamOption func(*StreamConverter)

// WithRuleSet replaces the default rule order.
func WithRuleSet(rules *RuleSet) StreamOption {
	return func(c *StreamConverter) {
		if rules != nil {
			c.rules = rules
		}
	}
}

// WithCodeRenderer replaces the plain code block renderer.
func WithCodeRenderer(code CodeRenderer) StreamOption {
	return func(c *StreamConverter) {
		if code != nil {
			c.code = code
		}
	}
}

// WithPreEscaped declares that the caller already HTML-escaped the text,
// '>' included. The converter then skips its own escaping pass.
func WithPreEscaped(preEscaped bool) StreamOption {
	return func(c *StreamConverter) {
		c.preEscaped = preEscaped
	}
}

// NewStreamConverter creates a StreamConverter with the default rules and
// plain code blocks.
func NewStreamConverter(opts ...StreamOption) *StreamConverter {
	c := &StreamConverter{
		preprocessor: &ChatPreprocessor{},
		rules:        DefaultRules(),
		code:         PlainCodeRenderer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToHTML formats content into an HTML fragment.
// Stages run in a fixed order: preprocess, protect spans, escape, rules,
// paragraphs, restore spans.
func (c *StreamConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content = c.preprocessor.PreprocessMarkdown(ctx, content)

	spans := newSpans(c.preEscaped)
	content = protectSpans(content, spans)
	if !c.preEscaped {
		content = escapeHTML(content)
	}

	for _, rule := range c.rules.rules {
		content = rule.apply(content, spans)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content = assembleBlocks(content, spans)
	return restoreSpans(content, spans, c.code), nil
}

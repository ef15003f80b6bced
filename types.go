package chatfmt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-chatfmt/internal/pipeline"
)

// Message is a raw message buffer, possibly a prefix of a message still
// being streamed.
type Message struct {
	Text    string
	Writing bool // true while tokens are still arriving
}

// Fragment is the formatted HTML for a Message.
// Cursor tells the rendering layer to show a typing cursor; it never
// changes HTML.
type Fragment struct {
	HTML   string
	Cursor bool
}

// DefaultCursor is a block cursor marker for Fragment.Markup.
const DefaultCursor = `<span class="cursor" aria-hidden="true">&#9613;</span>`

// Markup returns HTML followed by cursor when the message is still being
// written. cursor is trusted markup.
func (f Fragment) Markup(cursor string) string {
	if !f.Cursor {
		return f.HTML
	}
	return f.HTML + cursor
}

// Engine selects the formatting engine for finished messages.
type Engine string

// Supported engines.
const (
	// EngineStream is the incremental rewrite pipeline. It accepts any
	// prefix of a message and is the only engine used while writing.
	EngineStream Engine = "stream"

	// EngineCommonMark renders finished messages as CommonMark with GFM
	// extensions (lists, tables, footnotes).
	EngineCommonMark Engine = "commonmark"
)

// Engines returns the supported engine names.
func Engines() []Engine {
	return []Engine{EngineStream, EngineCommonMark}
}

// ParseEngine returns the engine with the given case-insensitive name.
// An empty name selects EngineStream.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case "", EngineStream:
		return EngineStream, nil
	case EngineCommonMark:
		return EngineCommonMark, nil
	default:
		return "", fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, name, EngineStream, EngineCommonMark)
	}
}

// Rule customization, re-exported from the pipeline.
type (
	// Rule is one ordered rewrite step of the stream engine.
	Rule = pipeline.Rule

	// RuleSet is an immutable ordered list of rules, safe to share.
	RuleSet = pipeline.RuleSet

	// Match is a pattern match handed to a Rule function.
	Match = pipeline.Match
)

// DefaultRules returns the stream engine's rule order.
func DefaultRules() *RuleSet {
	return pipeline.DefaultRules()
}

// NewRuleSet validates rules and returns them as an ordered set.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	return pipeline.NewRuleSet(rules...)
}

// Option configures a Formatter.
type Option func(*formatterConfig)

// formatterConfig holds the options collected by New.
type formatterConfig struct {
	logger     *slog.Logger
	engine     Engine
	preEscaped bool
	style      string
	marks      bool
	rules      *RuleSet
}

// WithLogger sets the logger for diagnostics.
// Without it the Formatter logs to slog.Default() at call time.
func WithLogger(logger *slog.Logger) Option {
	return func(c *formatterConfig) {
		c.logger = logger
	}
}

// WithEngine selects the engine for finished messages.
func WithEngine(engine Engine) Option {
	return func(c *formatterConfig) {
		c.engine = engine
	}
}

// WithPreEscapedInput declares that text arrives HTML-escaped by the
// upstream encoder, '>' included. Internal escaping is then skipped.
func WithPreEscapedInput() Option {
	return func(c *formatterConfig) {
		c.preEscaped = true
	}
}

// WithHighlighting enables syntax highlighting of fenced code blocks with
// the named chroma style. Output uses CSS classes; see HighlightCSS.
func WithHighlighting(style string) Option {
	return func(c *formatterConfig) {
		c.style = style
	}
}

// WithMarkHighlights enables ==text== as <mark>, right after strikethrough.
func WithMarkHighlights() Option {
	return func(c *formatterConfig) {
		c.marks = true
	}
}

// WithRules replaces the stream engine's rule set.
func WithRules(rules *RuleSet) Option {
	return func(c *formatterConfig) {
		c.rules = rules
	}
}

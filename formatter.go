package chatfmt

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-chatfmt/internal/pipeline"
)

// Formatter turns chat message buffers into HTML fragments.
// It is immutable after New and safe for concurrent use.
type Formatter struct {
	logger       *slog.Logger
	engine       Engine
	preEscaped   bool
	preprocessor pipeline.MarkdownPreprocessor
	stream       pipeline.HTMLConverter
	finished     pipeline.HTMLConverter // engine for messages no longer being written
}

// New creates a Formatter. Options are validated here; a Formatter that
// was created successfully never fails on its own configuration later.
func New(opts ...Option) (*Formatter, error) {
	cfg := formatterConfig{engine: EngineStream}
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := ParseEngine(string(cfg.engine))
	if err != nil {
		return nil, err
	}

	rules, err := resolveRules(cfg.rules, cfg.marks)
	if err != nil {
		return nil, err
	}

	streamOpts := []pipeline.StreamOption{
		pipeline.WithRuleSet(rules),
		pipeline.WithPreEscaped(cfg.preEscaped),
	}
	if cfg.style != "" {
		code, err := pipeline.NewChromaCodeRenderer(cfg.style)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHighlightStyle, err)
		}
		streamOpts = append(streamOpts, pipeline.WithCodeRenderer(code))
	}

	f := &Formatter{
		logger:       cfg.logger,
		engine:       engine,
		preEscaped:   cfg.preEscaped,
		preprocessor: &pipeline.ChatPreprocessor{},
		stream:       pipeline.NewStreamConverter(streamOpts...),
	}

	f.finished = f.stream
	if engine == EngineCommonMark {
		f.finished = pipeline.NewGoldmarkConverter(strings.ToLower(cfg.style))
	}

	return f, nil
}

// resolveRules applies the mark option on top of the chosen rule set.
func resolveRules(rules *RuleSet, marks bool) (*RuleSet, error) {
	if rules == nil {
		rules = pipeline.DefaultRules()
	}
	if !marks {
		return rules, nil
	}

	withMarks, err := rules.InsertAfter(pipeline.RuleStrikethrough, pipeline.MarkRule())
	if errors.Is(err, pipeline.ErrRuleNotFound) {
		withMarks, err = pipeline.NewRuleSet(append(rules.Rules(), pipeline.MarkRule())...)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return withMarks, nil
}

// Engine returns the engine used for finished messages.
func (f *Formatter) Engine() Engine {
	return f.engine
}

// Format formats a complete message.
// It never fails: on an internal error it logs a warning and returns the
// text unformatted (escaped unless the input is declared pre-escaped).
func (f *Formatter) Format(text string) string {
	return f.format(text, f.finished)
}

// FormatValue formats untyped input. Only string and non-nil *string are
// text; anything else logs a warning and yields "".
func (f *Formatter) FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return f.Format(t)
	case *string:
		if t != nil {
			return f.Format(*t)
		}
	}

	f.log().Warn("chatfmt: ignoring non-text input",
		"error", fmt.Errorf("%w: %T", ErrInvalidInput, v))
	return ""
}

// Render formats a message buffer and forwards its streaming flag.
// While the message is being written the stream engine is always used,
// whatever engine was configured.
func (f *Formatter) Render(msg Message) Fragment {
	conv := f.finished
	if msg.Writing {
		conv = f.stream
	}
	return Fragment{
		HTML:   f.format(msg.Text, conv),
		Cursor: msg.Writing,
	}
}

// FormatContext formats a complete message and reports failures instead of
// falling back. Errors wrap ErrTransformation, or are ctx.Err().
func (f *Formatter) FormatContext(ctx context.Context, text string) (string, error) {
	return f.convert(ctx, text, f.finished)
}

// format runs conv and falls back to the raw text on failure.
func (f *Formatter) format(text string, conv pipeline.HTMLConverter) string {
	out, err := f.convert(context.Background(), text, conv)
	if err != nil {
		f.log().Warn("chatfmt: formatting failed, returning raw text",
			"error", err,
			"engine", f.engine,
			"bytes", len(text))
		return f.fallback(text)
	}
	return out
}

// convert runs one conversion and turns panics into ErrTransformation.
func (f *Formatter) convert(ctx context.Context, text string, conv pipeline.HTMLConverter) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrTransformation, r)
		}
	}()

	if conv != f.stream {
		text = f.prepareFinished(ctx, text)
	}

	out, err = conv.ToHTML(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrTransformation, err)
	}
	return out, nil
}

// prepareFinished readies text for the CommonMark engine, which does its
// own escaping. Pre-escaped text is decoded so '>' opens blockquotes again,
// while '<' stays an entity and never becomes raw HTML.
func (f *Formatter) prepareFinished(ctx context.Context, text string) string {
	text = f.preprocessor.PreprocessMarkdown(ctx, text)
	if f.preEscaped {
		text = strings.ReplaceAll(html.UnescapeString(text), "<", "&lt;")
	}
	return text
}

// fallback is what callers get when formatting fails. Escaping is the
// trust boundary, so raw text is only passed through when pre-escaped.
func (f *Formatter) fallback(text string) string {
	if f.preEscaped {
		return text
	}
	return string(util.EscapeHTML([]byte(text)))
}

func (f *Formatter) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.Default()
}

// defaultFormatter backs the package-level Format.
var defaultFormatter = mustNew()

func mustNew(opts ...Option) *Formatter {
	f, err := New(opts...)
	if err != nil {
		panic("chatfmt: " + err.Error())
	}
	return f
}

// Format formats a complete message with the default options.
func Format(text string) string {
	return defaultFormatter.Format(text)
}

// HighlightCSS returns the stylesheet for code blocks highlighted with the
// named chroma style.
func HighlightCSS(style string) (string, error) {
	code, err := pipeline.NewChromaCodeRenderer(style)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHighlightStyle, err)
	}

	var b strings.Builder
	if err := code.WriteCSS(&b); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return b.String(), nil
}

// HighlightStyles returns the available highlight style names.
func HighlightStyles() []string {
	return pipeline.StyleNames()
}

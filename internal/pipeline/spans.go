package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// spanKind identifies how a protected region is restored.
type spanKind int

const (
	spanInlineCode spanKind = iota // `code`
	spanCodeBlock                  // ```lang\ncode```
	spanLiteral                    // unterminated fence, kept verbatim
	spanURL                        // link destination
)

// span is one protected region. text is always unescaped source.
type span struct {
	kind spanKind
	lang string
	text string
}

// Precompiled patterns for phase 1.
var (
	// Fenced code block. The language tag only counts when a newline follows it,
	// so ```inline``` keeps its content.
	fencedCode = regexp.MustCompile("(?s)```(?:([A-Za-z0-9_+#.-]+)[ \\t]*\\n|\\n)?(.*?)```")

	// Inline code on a single line.
	inlineCode = regexp.MustCompile("`([^`\\n]+)`")

	// Destination part of [label](url).
	linkDestination = regexp.MustCompile(`\]\(([^()\s]+)\)`)

	// Placeholder token.
	spanToken = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)
)

// fence opens and closes a code block.
const fence = "```"

// Spans holds the protected regions of a single formatting call.
// A Spans value is never shared between calls.
type Spans struct {
	items      []span
	preEscaped bool
}

func newSpans(preEscaped bool) *Spans {
	return &Spans{preEscaped: preEscaped}
}

// add stores a span and returns its placeholder token.
func (s *Spans) add(kind spanKind, lang, text string) string {
	if s.preEscaped {
		text = html.UnescapeString(text)
	}
	s.items = append(s.items, span{kind: kind, lang: lang, text: text})
	return SpanStartPlaceholder + strconv.Itoa(len(s.items)-1) + SpanEndPlaceholder
}

// lookup resolves the index captured from a placeholder token.
func (s *Spans) lookup(index string) (span, bool) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(s.items) {
		return span{}, false
	}
	return s.items[i], true
}

// URL returns the unescaped link destination protected under the given
// placeholder index.
func (s *Spans) URL(index string) (string, bool) {
	sp, ok := s.lookup(index)
	if !ok || sp.kind != spanURL {
		return "", false
	}
	return sp.text, true
}

// Escape escapes text for HTML output.
func (s *Spans) Escape(text string) string {
	return escapeHTML(text)
}

// isBlock reports whether block consists solely of a code block placeholder.
func (s *Spans) isBlock(block string) bool {
	m := spanToken.FindStringSubmatch(block)
	if m == nil || m[0] != block {
		return false
	}
	sp, ok := s.lookup(m[1])
	return ok && sp.kind == spanCodeBlock
}

// protectSpans extracts every region that rewrite rules must not touch.
// Fences are taken before inline code, otherwise a multi-line fence is torn
// apart by single backticks inside it.
func protectSpans(content string, spans *Spans) string {
	content = replaceSubmatches(fencedCode, content, func(m Match) string {
		code := strings.TrimSuffix(m.Groups[2], "\n")
		return "\n\n" + spans.add(spanCodeBlock, m.Groups[1], code) + "\n\n"
	})

	// An unmatched fence runs to the end of the buffer while streaming.
	if i := strings.Index(content, fence); i >= 0 {
		content = content[:i] + spans.add(spanLiteral, "", content[i:])
	}

	content = replaceSubmatches(inlineCode, content, func(m Match) string {
		return spans.add(spanInlineCode, "", m.Groups[1])
	})

	return replaceSubmatches(linkDestination, content, func(m Match) string {
		return "](" + spans.add(spanURL, "", m.Groups[1]) + ")"
	})
}

// restoreSpans substitutes every remaining placeholder in a single pass.
func restoreSpans(content string, spans *Spans, code CodeRenderer) string {
	return spanToken.ReplaceAllStringFunc(content, func(token string) string {
		sp, ok := spans.lookup(spanToken.FindStringSubmatch(token)[1])
		if !ok {
			return ""
		}
		switch sp.kind {
		case spanInlineCode:
			return "<code>" + escapeHTML(sp.text) + "</code>"
		case spanCodeBlock:
			return code.RenderCode(sp.lang, sp.text)
		case spanLiteral:
			return strings.ReplaceAll(escapeHTML(sp.text), "\n", lineBreak)
		default:
			return escapeHTML(sp.text)
		}
	})
}

// escapeHTML escapes & < > and " using Goldmark's escaping table.
func escapeHTML(text string) string {
	return string(util.EscapeHTML([]byte(text)))
}

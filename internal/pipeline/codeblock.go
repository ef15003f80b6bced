package pipeline

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownStyle indicates the highlight style is not registered in chroma.
var ErrUnknownStyle = errors.New("unknown highlight style")

// CodeRenderer renders the content of a protected code block.
// code is unescaped source; implementations own the escaping.
type CodeRenderer interface {
	RenderCode(lang, code string) string
}

// PlainCodeRenderer renders escaped code with a language-* class.
type PlainCodeRenderer struct{}

// RenderCode returns a pre/code block.
func (PlainCodeRenderer) RenderCode(lang, code string) string {
	return openCode(lang, "") + escapeHTML(code) + "</code></pre>"
}

// ChromaCodeRenderer highlights code blocks with chroma using CSS classes,
// so the stylesheet stays under the page's control.
type ChromaCodeRenderer struct {
	style *chroma.Style
}

// NewChromaCodeRenderer returns a renderer for the named chroma style.
func NewChromaCodeRenderer(styleName string) (*ChromaCodeRenderer, error) {
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStyle, styleName, strings.Join(StyleNames(), ", "))
	}
	return &ChromaCodeRenderer{style: style}, nil
}

// RenderCode highlights code when the language is known and falls back to
// plain rendering otherwise.
func (r *ChromaCodeRenderer) RenderCode(lang, code string) string {
	if lang == "" {
		return PlainCodeRenderer{}.RenderCode(lang, code)
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return PlainCodeRenderer{}.RenderCode(lang, code)
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return PlainCodeRenderer{}.RenderCode(lang, code)
	}

	// A formatter per call: chroma formatters keep a style cache.
	var buf strings.Builder
	if err := newChromaFormatter().Format(&buf, r.style, iterator); err != nil {
		return PlainCodeRenderer{}.RenderCode(lang, code)
	}
	return openCode(lang, "chroma") + buf.String() + "</code></pre>"
}

// WriteCSS writes the stylesheet matching the renderer's classes.
func (r *ChromaCodeRenderer) WriteCSS(w io.Writer) error {
	return newChromaFormatter().WriteCSS(w, r.style)
}

// StyleNames returns the registered chroma style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newChromaFormatter() *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
}

// openCode writes the opening pre/code tags.
func openCode(lang, preClass string) string {
	var b strings.Builder
	b.WriteString("<pre")
	if preClass != "" {
		b.WriteString(` class="` + preClass + `"`)
	}
	b.WriteString("><code")
	if lang != "" {
		b.WriteString(` class="language-` + escapeHTML(lang) + `"`)
	}
	b.WriteString(">")
	return b.String()
}

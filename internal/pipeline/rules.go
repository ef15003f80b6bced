package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for rule set construction.
var (
	ErrInvalidRule   = errors.New("invalid rewrite rule")
	ErrDuplicateRule = errors.New("duplicate rewrite rule")
	ErrRuleNotFound  = errors.New("rewrite rule not found")
)

// Default rule names, in pipeline order.
const (
	RuleHeaders       = "headers"
	RuleBold          = "bold"
	RuleItalic        = "italic"
	RuleStrikethrough = "strikethrough"
	RuleMarks         = "marks"
	RuleBlockquotes   = "blockquotes"
	RuleLinks         = "links"
)

// LinkRel is the rel attribute of every generated anchor. Targets come from
// AI-generated text, so the new browsing context gets neither opener nor referrer.
const LinkRel = "noopener noreferrer nofollow"

// lineBreak replaces single newlines inside a block.
const lineBreak = "<br />"

// Match is one pattern match handed to a rule function.
type Match struct {
	Groups []string // full match followed by capture groups ("" when unmatched)
	Before string   // text preceding the match
	After  string   // text following the match
	Spans  *Spans
}

// Rule is one ordered rewrite step. Exactly one of Template and Func is set.
// Template uses regexp.Expand syntax ($1, ${name}).
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Template string
	Func     func(m Match) string
}

// validate checks that the rule can be applied.
func (r Rule) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRule)
	}
	if r.Pattern == nil {
		return fmt.Errorf("%w: %q has no pattern", ErrInvalidRule, r.Name)
	}
	if (r.Template == "") == (r.Func == nil) {
		return fmt.Errorf("%w: %q needs exactly one of template or func", ErrInvalidRule, r.Name)
	}
	return nil
}

// apply rewrites every match of the rule in content.
func (r Rule) apply(content string, spans *Spans) string {
	if r.Func == nil {
		return r.Pattern.ReplaceAllString(content, r.Template)
	}
	return replaceSubmatches(r.Pattern, content, func(m Match) string {
		m.Spans = spans
		return r.Func(m)
	})
}

// RuleSet is an immutable ordered list of rewrite rules.
// Build it once and share it; it is safe for concurrent use.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet validates rules and returns them as an ordered set.
// Rule names must be unique.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name)
		}
		seen[r.Name] = true
	}
	return &RuleSet{rules: append([]Rule(nil), rules...)}, nil
}

// Rules returns a copy of the ordered rules.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Names returns rule names in order.
func (rs *RuleSet) Names() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}

// InsertAfter returns a new set with rule placed right after the named rule.
// The receiver is left unchanged.
func (rs *RuleSet) InsertAfter(name string, rule Rule) (*RuleSet, error) {
	for i, r := range rs.rules {
		if r.Name != name {
			continue
		}
		rules := make([]Rule, 0, len(rs.rules)+1)
		rules = append(rules, rs.rules[:i+1]...)
		rules = append(rules, rule)
		rules = append(rules, rs.rules[i+1:]...)
		return NewRuleSet(rules...)
	}
	return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, name)
}

// Precompiled rule patterns.
var (
	// ## Title or ### Title, not # or ####.
	headerPattern = regexp.MustCompile(`(?m)^(#{2,3})[ \t]+(\S.*?)[ \t]*$`)

	// **x** or __x__; content cannot open with whitespace or the marker.
	boldPattern = regexp.MustCompile(`\*\*([^\s*][^\n]*?)\*\*|__([^\s_][^\n]*?)__`)

	// *x* or _x_; content cannot contain '<', so a match never spans a tag
	// produced by an earlier rule.
	italicPattern = regexp.MustCompile(`\*([^\s*<][^*<\n]*?)\*|_([^\s_<][^_<\n]*?)_`)

	// ~~x~~
	strikethroughPattern = regexp.MustCompile(`~~([^\s~][^~\n]*?)~~`)

	// ==x==
	markPattern = regexp.MustCompile(`==([^\s=][^=\n]*?)==`)

	// Consecutive lines opening with an escaped '>'.
	blockquotePattern = regexp.MustCompile(`(?m)^&gt;(?:[ \t].*)?(?:\n&gt;(?:[ \t].*)?)*$`)

	// [label](placeholder) once the destination is protected.
	linkPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]\(\x{E000}(\d+)\x{E001}\)`)
)

// HeaderRule turns ## and ### lines into h2/h3 blocks.
// It runs first: heading markers are line-anchored and must not be read as
// emphasis by later rules.
func HeaderRule() Rule {
	return Rule{
		Name:    RuleHeaders,
		Pattern: headerPattern,
		Func: func(m Match) string {
			tag := fmt.Sprintf("h%d", len(m.Groups[1]))
			return isolate("<" + tag + ">" + m.Groups[2] + "</" + tag + ">")
		},
	}
}

// BoldRule turns **x** and __x__ into strong spans.
// It runs before ItalicRule so a double marker is not split into two singles.
func BoldRule() Rule {
	return Rule{
		Name:    RuleBold,
		Pattern: boldPattern,
		Func: func(m Match) string {
			if m.Groups[2] != "" {
				if !wordBoundary(m) {
					return m.Groups[0]
				}
				return "<strong>" + m.Groups[2] + "</strong>"
			}
			return "<strong>" + m.Groups[1] + "</strong>"
		},
	}
}

// ItalicRule turns *x* and _x_ into emphasis spans.
// Underscores only count between non-word characters, so snake_case stays literal.
func ItalicRule() Rule {
	return Rule{
		Name:    RuleItalic,
		Pattern: italicPattern,
		Func: func(m Match) string {
			if m.Groups[2] != "" {
				if !wordBoundary(m) {
					return m.Groups[0]
				}
				return "<em>" + m.Groups[2] + "</em>"
			}
			return "<em>" + m.Groups[1] + "</em>"
		},
	}
}

// StrikethroughRule turns ~~x~~ into a del span.
func StrikethroughRule() Rule {
	return Rule{
		Name:     RuleStrikethrough,
		Pattern:  strikethroughPattern,
		Template: "<del>$1</del>",
	}
}

// MarkRule turns ==x== into a mark span. It is not part of DefaultRules.
func MarkRule() Rule {
	return Rule{
		Name:     RuleMarks,
		Pattern:  markPattern,
		Template: "<mark>$1</mark>",
	}
}

// BlockquoteRule merges consecutive "&gt; " lines into one blockquote block.
// The input must have '>' escaped to "&gt;": the stream engine does it unless
// the caller declared the text pre-escaped.
func BlockquoteRule() Rule {
	return Rule{
		Name:    RuleBlockquotes,
		Pattern: blockquotePattern,
		Func: func(m Match) string {
			lines := strings.Split(m.Groups[0], "\n")
			for i, line := range lines {
				line = strings.TrimPrefix(line, "&gt;")
				if line != "" && (line[0] == ' ' || line[0] == '\t') {
					line = line[1:]
				}
				lines[i] = line
			}
			return isolate("<blockquote>" + strings.Join(lines, "\n") + "</blockquote>")
		},
	}
}

// LinkRule turns [label](url) into an anchor opening a new browsing context.
// Dangerous schemes keep the label and drop the link.
func LinkRule() Rule {
	return Rule{
		Name:    RuleLinks,
		Pattern: linkPattern,
		Func: func(m Match) string {
			url, ok := m.Spans.URL(m.Groups[2])
			if !ok {
				return m.Groups[0]
			}
			if html.IsDangerousURL([]byte(url)) {
				return m.Groups[1]
			}
			return `<a href="` + m.Spans.Escape(url) + `" target="_blank" rel="` + LinkRel + `">` + m.Groups[1] + "</a>"
		},
	}
}

// defaultRules is built once; DefaultRules hands out the shared pointer.
var defaultRules = mustRuleSet(
	HeaderRule(),
	BoldRule(),
	ItalicRule(),
	StrikethroughRule(),
	BlockquoteRule(),
	LinkRule(),
)

// DefaultRules returns the stream engine's rule order:
// headers, bold, italic, strikethrough, blockquotes, links.
// Code spans are handled before any rule runs; paragraphs after all of them.
func DefaultRules() *RuleSet {
	return defaultRules
}

func mustRuleSet(rules ...Rule) *RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic("pipeline: " + err.Error())
	}
	return rs
}

// isolate surrounds a block element with blank lines so paragraph assembly
// sees it as a block of its own.
func isolate(block string) string {
	return "\n\n" + block + "\n\n"
}

// wordBoundary reports whether the match is not glued to word characters.
func wordBoundary(m Match) bool {
	if r, _ := utf8.DecodeLastRuneInString(m.Before); isWordRune(r) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(m.After); isWordRune(r) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// replaceSubmatches is ReplaceAllStringFunc with access to capture groups
// and surrounding text.
func replaceSubmatches(re *regexp.Regexp, content string, fn func(m Match) string) string {
	locs := re.FindAllStringSubmatchIndex(content, -1)
	if locs == nil {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, loc := range locs {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = content[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(content[last:loc[0]])
		b.WriteString(fn(Match{
			Groups: groups,
			Before: content[:loc[0]],
			After:  content[loc[1]:],
		}))
		last = loc[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

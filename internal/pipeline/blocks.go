package pipeline

import (
	"regexp"
	"strings"
)

// One or more blank lines, whitespace-only lines included.
var blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)

// blockTags open blocks that are passed through without a paragraph wrapper.
var blockTags = []string{"<h2>", "<h3>", "<blockquote>"}

// assembleBlocks splits content on blank lines and wraps plain blocks in
// paragraphs. Single newlines left inside any block become line breaks.
func assembleBlocks(content string, spans *Spans) string {
	parts := blankLines.Split(content, -1)
	blocks := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.Trim(part, " \t\n")
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "\n", lineBreak)
		if isBlockElement(part, spans) {
			blocks = append(blocks, part)
			continue
		}
		blocks = append(blocks, "<p>"+part+"</p>")
	}

	return strings.Join(blocks, "\n")
}

// isBlockElement reports whether block already is a block-level element.
// Text was escaped before the rules ran, so a leading tag can only come from
// a rule.
func isBlockElement(block string, spans *Spans) bool {
	for _, tag := range blockTags {
		if strings.HasPrefix(block, tag) {
			return true
		}
	}
	return spans.isBlock(block)
}

// Package pipeline implements the chat message formatting pipeline.
//
// The stream engine turns the constrained markdown dialect emitted by an AI
// response stream into an HTML fragment. It is re-run on the whole buffer for
// every token that arrives, so every stage must accept partial input:
//   - Preprocessing (outer quote pair, line endings, sentinel scrubbing)
//   - Phase 1: code and link destinations extracted into opaque spans
//   - HTML escaping of the remaining text
//   - Phase 2: ordered rewrite rules (headers, emphasis, quotes, links)
//   - Paragraph and line break assembly
//   - Span restoration (code blocks, inline code, URLs)
//
// Rule order is data: a RuleSet is an immutable ordered list built once and
// shared by reference between concurrent callers.
//
// The CommonMark engine renders finished messages through Goldmark and is
// kept separate because it does not tolerate partial input the same way.
package pipeline

// Package chatfmt formats chat messages streamed by an AI assistant into
// HTML fragments.
//
// # Quick Start
//
// Format a finished message:
//
//	html := chatfmt.Format("## Summary\n\nThe lease is **void**.")
//
// While a response is streaming, re-render the whole buffer on every token
// and let the rendering layer draw a cursor:
//
//	f, err := chatfmt.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frag := f.Render(chatfmt.Message{Text: buffer, Writing: true})
//	w.Write([]byte(frag.Markup(chatfmt.DefaultCursor)))
//
// # Formatting Pipeline
//
// The stream engine runs in two phases:
//
//  1. Code spans, fenced code blocks and link destinations are replaced by
//     opaque placeholders, so no later rule can touch their content.
//     An unterminated fence is kept literal until its closing fence arrives.
//  2. The remaining text is HTML-escaped, then rewritten by an ordered rule
//     set: headers, bold, italic, strikethrough, blockquotes, links.
//     Blank lines split paragraphs and single newlines become line breaks.
//
// Rule order is data. DefaultRules returns the shared immutable set;
// WithRules and WithMarkHighlights derive new sets without mutating it.
//
// # Trust Boundary
//
// The returned fragment is meant for direct injection into a page. All text
// outside recognized constructs is escaped, links get
// target="_blank" rel="noopener noreferrer nofollow", and dangerous link
// schemes render as plain labels. Callers whose upstream already escapes
// text use WithPreEscapedInput.
//
// # Failure Semantics
//
// Format and Render never fail. Non-text input to FormatValue yields "".
// An internal failure returns the raw text, escaped, and logs a warning
// through log/slog. FormatContext reports the same failures as errors
// wrapping ErrTransformation.
//
// # Engines
//
// EngineCommonMark renders finished messages with Goldmark (GFM tables,
// lists, footnotes). Messages still being written always use the stream
// engine, which tolerates any prefix of a message.
package chatfmt

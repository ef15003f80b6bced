package chatfmt

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidInput indicates FormatValue received something other than text.
	ErrInvalidInput = errors.New("input is not text")

	// ErrTransformation indicates the pipeline failed on a message.
	// Format and Render never return it: they fall back to the raw text.
	ErrTransformation = errors.New("formatting failed")

	// Option validation errors.
	ErrInvalidEngine         = errors.New("invalid engine")
	ErrInvalidHighlightStyle = errors.New("invalid highlight style")
	ErrInvalidRules          = errors.New("invalid rule set")
)

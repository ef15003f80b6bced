package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestWrapDocument(t *testing.T) {
	t.Parallel()

	t.Run("title escaped and fragment embedded", func(t *testing.T) {
		t.Parallel()

		got := WrapDocument("<p>x</p>", "a<b")
		for _, want := range []string{"<!DOCTYPE html>", "<title>a&lt;b</title>", "<article class=\"chat-message\">\n<p>x</p>\n</article>"} {
			if !strings.Contains(got, want) {
				t.Errorf("WrapDocument() missing %q", want)
			}
		}
	})

	t.Run("default title", func(t *testing.T) {
		t.Parallel()

		if got := WrapDocument("", ""); !strings.Contains(got, "<title>Message</title>") {
			t.Errorf("WrapDocument() lacks default title: %q", got)
		}
	})

	t.Run("placeholders in fragment are not expanded", func(t *testing.T) {
		t.Parallel()

		got := WrapDocument("<p>%TITLE%</p>", "T")
		if !strings.Contains(got, "<p>%TITLE%</p>") {
			t.Errorf("WrapDocument() expanded fragment text: %q", got)
		}
	})
}

func TestCSSInjection_InjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "before closing head",
			html:     "<html><head></head><body></body></html>",
			css:      "p{}",
			expected: "<html><head><style>p{}</style></head><body></body></html>",
		},
		{
			name:     "uppercase head",
			html:     "<HTML><HEAD></HEAD></HTML>",
			css:      "p{}",
			expected: "<HTML><HEAD><style>p{}</style></HEAD></HTML>",
		},
		{
			name:     "after body open tag",
			html:     `<body class="x"><p>a</p></body>`,
			css:      "p{}",
			expected: `<body class="x"><style>p{}</style><p>a</p></body>`,
		},
		{
			name:     "prepended to fragment",
			html:     "<p>a</p>",
			css:      "p{}",
			expected: "<style>p{}</style><p>a</p>",
		},
		{
			name:     "empty css",
			html:     "<p>a</p>",
			css:      "",
			expected: "<p>a</p>",
		},
		{
			name:     "style breakout neutralized",
			html:     "<p>a</p>",
			css:      "</style><script>x</script>",
			expected: `<style><\/style><script>x<\/script></style><p>a</p>`,
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCSSInjection_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := (&CSSInjection{}).InjectCSS(ctx, "<p>a</p>", "p{}"); got != "<p>a</p>" {
		t.Errorf("InjectCSS() = %q, want input unchanged", got)
	}
}

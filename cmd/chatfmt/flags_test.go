package main

// Notes:
// - parseRenderFlags, parseReplayFlags, parseCommonFlags: we test value
//   binding, shorthands, positional args and error paths.
// No coverage gaps.

import (
	"errors"
	"io"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render flag binding
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-o", "out", "-w", "3", "-e", "commonmark", "--highlight", "monokai",
		"--marks", "--pre-escaped", "--page", "--title", "T", "--style", "dark",
		"--base-url", "https://x.io/", "--asset-path", "/a", "--no-style",
		"-c", "chat", "-q", "in.md",
	}

	f, positional, err := parseRenderFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseRenderFlags: %v", err)
	}

	if f.output != "out" || f.workers != 3 {
		t.Errorf("output, workers = %q, %d", f.output, f.workers)
	}
	if f.format != (formatFlags{engine: "commonmark", highlight: "monokai", marks: true, preEscaped: true}) {
		t.Errorf("format = %+v", f.format)
	}
	wantPage := pageFlags{enabled: true, title: "T", style: "dark", baseURL: "https://x.io/", assetPath: "/a", noStyle: true}
	if f.page != wantPage {
		t.Errorf("page = %+v, want %+v", f.page, wantPage)
	}
	if f.common != (commonFlags{config: "chat", quiet: true}) {
		t.Errorf("common = %+v", f.common)
	}
	if len(positional) != 1 || positional[0] != "in.md" {
		t.Errorf("positional = %v, want [in.md]", positional)
	}
}

// ---------------------------------------------------------------------------
// TestParseReplayFlags - Replay flag binding
// ---------------------------------------------------------------------------

func TestParseReplayFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseReplayFlags([]string{"-n", "8", "-d", "30ms", "--cursor", "|", "--final", "-v", "-"}, io.Discard)
	if err != nil {
		t.Fatalf("parseReplayFlags: %v", err)
	}

	if f.chunk != 8 || f.delay != "30ms" || f.cursor != "|" || !f.final {
		t.Errorf("flags = %+v", f)
	}
	if !f.common.verbose {
		t.Error("verbose should be set")
	}
	if len(positional) != 1 || positional[0] != "-" {
		t.Errorf("positional = %v, want [-]", positional)
	}
}

// ---------------------------------------------------------------------------
// TestParseFlags_Errors - Invalid and help flags
// ---------------------------------------------------------------------------

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseRenderFlags([]string{"--landscape"}, io.Discard); err == nil {
			t.Error("expected error for unknown flag")
		}
	})

	t.Run("non-numeric workers", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseRenderFlags([]string{"-w", "two"}, io.Discard); err == nil {
			t.Error("expected error for non-numeric workers")
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseReplayFlags([]string{"--help"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
	})

	t.Run("common flags reject command flags", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseCommonFlags("styles", []string{"--page"}, io.Discard, printStylesUsage); err == nil {
			t.Error("expected error for --page on styles")
		}
	})
}

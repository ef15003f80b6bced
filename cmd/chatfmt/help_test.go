package main

// Notes:
// - runHelp: we test every topic and unknown topics.
// - print*Usage: we test that each usage text names its command and flags.
// No coverage gaps.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Help topics
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"overview", nil, "Commands:"},
		{"render", []string{"render"}, "Usage: chatfmt render"},
		{"replay", []string{"replay"}, "Usage: chatfmt replay"},
		{"styles", []string{"styles"}, "Usage: chatfmt styles"},
		{"config", []string{"config"}, "Usage: chatfmt config"},
		{"version", []string{"version"}, "Usage: chatfmt version"},
		{"help", []string{"help"}, "Usage: chatfmt help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if err := runHelp(tt.args, env.Environment); err != nil {
				t.Fatalf("runHelp: %v", err)
			}
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("stdout should contain %q, got:\n%s", tt.want, env.stdout)
			}
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if err := runHelp([]string{"pdf"}, env.Environment); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("error = %v, want ErrUnknownCommand", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestUsageTexts - Flag documentation
// ---------------------------------------------------------------------------

func TestUsageTexts(t *testing.T) {
	t.Parallel()

	t.Run("overview lists commands", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		printUsage(&buf)
		for _, cmd := range commands {
			if !strings.Contains(buf.String(), "  "+cmd+" ") {
				t.Errorf("usage should list %q", cmd)
			}
		}
	})

	t.Run("render documents its flags", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		printRenderUsage(&buf)
		for _, flag := range []string{"--output", "--workers", "--engine", "--highlight", "--page", "--style", "--base-url", "--quiet"} {
			if !strings.Contains(buf.String(), flag) {
				t.Errorf("render usage should document %s", flag)
			}
		}
	})

	t.Run("replay documents its flags", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		printReplayUsage(&buf)
		for _, flag := range []string{"--chunk", "--delay", "--cursor", "--final", "--marks"} {
			if !strings.Contains(buf.String(), flag) {
				t.Errorf("replay usage should document %s", flag)
			}
		}
	})
}

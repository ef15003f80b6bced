package main

// Notes:
// - Test infrastructure shared by the command tests: an in-memory
//   Environment and a renderer double.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	chatfmt "github.com/alnah/go-chatfmt"
	"github.com/alnah/go-chatfmt/internal/assets"
	"github.com/alnah/go-chatfmt/internal/config"
)

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv is an Environment backed by buffers, with recorded sleeps.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	sleeps []time.Duration
}

func newTestEnv(stdin string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	te.Environment = &Environment{
		Now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			te.sleeps = append(te.sleeps, d)
			return ctx.Err()
		},
		Stdin:       strings.NewReader(stdin),
		Stdout:      te.stdout,
		Stderr:      te.stderr,
		IsTerminal:  func(io.Writer) bool { return false },
		AssetLoader: assets.NewEmbeddedLoader(),
		Config:      config.DefaultConfig(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return te
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// readFile returns the content of path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Renderer Double
// ---------------------------------------------------------------------------

// wrapRenderer wraps the text in a paragraph without formatting it.
type wrapRenderer struct{}

func (wrapRenderer) Render(msg chatfmt.Message) chatfmt.Fragment {
	return chatfmt.Fragment{HTML: "<p>" + msg.Text + "</p>", Cursor: msg.Writing}
}

package main

// Notes:
// - discoverFiles: we test single files, recursive directories, extension
//   filtering and missing inputs.
// - resolveOutputPath: we test next-to-input, explicit file, flat and
//   mirrored directory outputs.
// No coverage gaps.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Transcript discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "a.md", "x")

		files, err := discoverFiles(input, "")
		if err != nil {
			t.Fatalf("discoverFiles: %v", err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "a.html") {
			t.Errorf("files = %+v", files)
		}
	})

	t.Run("single file with wrong extension", func(t *testing.T) {
		t.Parallel()

		input := writeFile(t, t.TempDir(), "a.html", "x")

		if _, err := discoverFiles(input, ""); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("directory keeps transcripts only", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "a.md", "x")
		writeFile(t, dir, "b.TXT", "x")
		writeFile(t, dir, "sub/c.markdown", "x")
		writeFile(t, dir, "d.json", "{}")

		files, err := discoverFiles(dir, "")
		if err != nil {
			t.Fatalf("discoverFiles: %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("got %d files, want 3: %+v", len(files), files)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "nope"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output location
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{"next to input", filepath.Join("in", "a.md"), "", "", filepath.Join("in", "a.html")},
		{"explicit file", filepath.Join("in", "a.md"), "chat.html", "", "chat.html"},
		{"flat directory", filepath.Join("in", "a.txt"), "out", "", filepath.Join("out", "a.html")},
		{"mirrored tree", filepath.Join("in", "sub", "a.markdown"), "out", "in", filepath.Join("out", "sub", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.outputDir, tt.baseDir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsTranscript - Extension matching
// ---------------------------------------------------------------------------

func TestIsTranscript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"a.md", true},
		{"a.MD", true},
		{"a.markdown", true},
		{"a.txt", true},
		{"a.html", false},
		{"md", false},
		{"-", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isTranscript(tt.path); got != tt.want {
				t.Errorf("isTranscript(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{8, false},
		{9, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPageTitle - Title from file name
// ---------------------------------------------------------------------------

func TestPageTitle(t *testing.T) {
	t.Parallel()

	if got := pageTitle(filepath.Join("chats", "2026-01-02 answer.md")); got != "2026-01-02 answer" {
		t.Errorf("pageTitle = %q", got)
	}
}

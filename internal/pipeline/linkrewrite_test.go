package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveRelativeLinks(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/guide/"

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative link",
			html:         `<p><a href="leases/art-12">art. 12</a></p>`,
			wantContains: []string{`href="https://docs.example.com/guide/leases/art-12"`},
		},
		{
			name:         "root-relative link",
			html:         `<a href="/faq">faq</a>`,
			wantContains: []string{`href="https://docs.example.com/faq"`},
		},
		{
			name:         "parent reference",
			html:         `<a href="../index">up</a>`,
			wantContains: []string{`href="https://docs.example.com/index"`},
		},
		{
			name:         "relative image",
			html:         `<img src="img/seal.png"/>`,
			wantContains: []string{`src="https://docs.example.com/guide/img/seal.png"`},
		},
		{
			name:         "absolute link unchanged",
			html:         `<a href="https://other.org/x">x</a>`,
			wantContains: []string{`href="https://other.org/x"`},
		},
		{
			name:         "anchor unchanged",
			html:         `<a href="#top">top</a>`,
			wantContains: []string{`href="#top"`},
		},
		{
			name:         "protocol-relative unchanged",
			html:         `<a href="//cdn.example.com/x">x</a>`,
			wantContains: []string{`href="//cdn.example.com/x"`},
		},
		{
			name:         "other attributes kept",
			html:         `<a href="x" target="_blank" rel="noopener noreferrer nofollow">x</a>`,
			wantContains: []string{`target="_blank"`, `rel="noopener noreferrer nofollow"`},
		},
		{
			name:         "no wrapper added",
			html:         `<p>text</p>`,
			wantContains: []string{"<p>text</p>"},
			wantExcludes: []string{"<html", "<body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveRelativeLinks(tt.html, base)
			if err != nil {
				t.Fatalf("ResolveRelativeLinks() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ResolveRelativeLinks() missing %q in %q", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ResolveRelativeLinks() should not contain %q: %q", exclude, got)
				}
			}
		})
	}
}

func TestResolveRelativeLinks_EmptyBase(t *testing.T) {
	t.Parallel()

	input := `<a href="x">x</a><br />`
	got, err := ResolveRelativeLinks(input, "")
	if err != nil {
		t.Fatalf("ResolveRelativeLinks() unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("ResolveRelativeLinks() = %q, want input unchanged", got)
	}
}

func TestResolveRelativeLinks_InvalidBase(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"docs/guide", "https://", "::"} {
		if _, err := ResolveRelativeLinks("<p>x</p>", base); !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("ResolveRelativeLinks(base=%q) error = %v, want ErrInvalidBaseURL", base, err)
		}
	}
}

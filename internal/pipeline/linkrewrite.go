package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates the base URL is not absolute.
var ErrInvalidBaseURL = errors.New("base URL must be absolute")

// ResolveRelativeLinks resolves relative a[href] and img[src] references in
// an HTML fragment against baseURL. If baseURL is empty, returns the fragment
// unchanged.
//
// Does NOT rewrite:
//   - anchors (#section)
//   - absolute or protocol-relative URLs
//   - references that fail to parse
func ResolveRelativeLinks(fragment, baseURL string) (string, error) {
	if baseURL == "" {
		return fragment, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		resolveNode(n, base)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// resolveNode walks the tree and rewrites relative references.
func resolveNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A:
			resolveAttr(n, "href", base)
		case atom.Img:
			resolveAttr(n, "src", base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		resolveNode(c, base)
	}
}

func resolveAttr(n *html.Node, key string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeRef reports whether ref needs a base to be resolved.
func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	u, err := url.Parse(ref)
	return err == nil && !u.IsAbs()
}

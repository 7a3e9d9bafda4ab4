package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrMissingField is returned when a listing lacks an element the source relies on.
// It usually means the venue changed its markup.
var ErrMissingField = errors.New("missing field")

// text returns the whitespace-normalized text of the first match of selector within s
func text(s *goquery.Selection, selector string) string {
	return clean(s.Find(selector).First().Text())
}

// clean collapses runs of whitespace
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// requireText is like text but fails when the element is absent or empty
func requireText(s *goquery.Selection, selector, field string) (string, error) {
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingField, field, selector)
	}
	t := clean(sel.Text())
	if t == "" {
		return "", fmt.Errorf("%w: %s is empty (%s)", ErrMissingField, field, selector)
	}
	return t, nil
}

// requireAttr returns an attribute of the first match of selector within s
func requireAttr(s *goquery.Selection, selector, attr, field string) (string, error) {
	sel := s.Find(selector).First()
	v, ok := sel.Attr(attr)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s (%s[%s])", ErrMissingField, field, selector, attr)
	}
	return strings.TrimSpace(v), nil
}

// textNodes returns the non-blank text nodes under s in document order
func textNodes(s *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := clean(n.Data); t != "" {
				out = append(out, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return out
}

// resolve makes ref absolute against base
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

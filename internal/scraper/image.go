package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BestFromSrcset returns the URL of the widest candidate in a srcset value.
// A candidate without a descriptor counts as 1; ties keep the first candidate.
func BestFromSrcset(srcset string) string {
	best := ""
	bestWidth := 0.0

	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}

		width := 1.0
		if len(fields) > 1 {
			desc := strings.TrimRight(fields[1], "wx")
			if w, err := strconv.ParseFloat(desc, 64); err == nil {
				width = w
			}
		}

		if best == "" || width > bestWidth {
			best = fields[0]
			bestWidth = width
		}
	}

	return best
}

// BestFromImg returns the best image URL of an <img> or <source> element,
// preferring its srcset over src. Lazy-loading data- attributes are honored.
func BestFromImg(sel *goquery.Selection) string {
	for _, attr := range []string{"srcset", "data-srcset"} {
		if srcset := strings.TrimSpace(sel.AttrOr(attr, "")); srcset != "" {
			if best := BestFromSrcset(srcset); best != "" {
				return best
			}
		}
	}
	for _, attr := range []string{"src", "data-src"} {
		if src := strings.TrimSpace(sel.AttrOr(attr, "")); src != "" {
			return src
		}
	}
	return ""
}

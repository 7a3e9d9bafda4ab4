package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	GrandHotelURL   = "https://www.grandodense.dk"
	grandHotelVenue = "Grand Hotel"
)

var (
	grandHotelDate  = regexp.MustCompile(`\d+\. \p{L}+ \d{4}`)
	grandHotelPrice = regexp.MustCompile(`\d+,-`)
)

// GrandHotel lists the concerts of Grand Hotel Odense. The same page lists
// restaurant events, which link outside /event-koncert/.
type GrandHotel struct {
	fetcher *Fetcher
	baseURL string
}

// NewGrandHotel creates the Grand Hotel source
func NewGrandHotel(f *Fetcher) *GrandHotel {
	return &GrandHotel{
		fetcher: f,
		baseURL: GrandHotelURL,
	}
}

func (g *GrandHotel) Name() string { return "grandhotel" }

func (g *GrandHotel) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	req := Get(g.baseURL + "/event-koncert/")
	req.UTF8 = true
	doc, err := g.fetcher.Document(ctx, req)
	if err != nil {
		return nil, err
	}
	return g.parse(doc)
}

func (g *GrandHotel) parse(doc *goquery.Document) ([]*concert.Concert, error) {
	concerts := make([]*concert.Concert, 0)

	events := doc.Find(".Preview_block__16Zmu .Preview_block__16Zmu")
	for i := 0; i < events.Length(); i++ {
		event := events.Eq(i)

		href, err := requireAttr(event, "a", "href", "url")
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if !strings.HasPrefix(href, "/event-koncert/") {
			continue
		}

		title, err := requireText(event, "h1", "title")
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		texts := textNodes(event)
		dateText := firstMatch(grandHotelDate, texts)
		if dateText == "" {
			return nil, fmt.Errorf("event %q: %w: date", title, ErrMissingField)
		}
		date, err := ParseDanishDate("2. January 2006", dateText)
		if err != nil {
			return nil, fmt.Errorf("event %q: parsing date: %w", title, err)
		}

		// Some previews carry a video instead of an image; those have not been concerts so far.
		img := resolve(g.baseURL, BestFromImg(event.Find("img").First()))
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": g.Name(), "title": title})
			continue
		}

		c := &concert.Concert{
			Title:  title,
			Venue:  grandHotelVenue,
			Date:   date,
			ImgURL: img,
			URL:    resolve(g.baseURL, href),
		}
		if label := firstContaining(grandHotelPrice, texts); label != "" {
			ParsePrice(label).Apply(c)
		}

		concerts = append(concerts, c)
	}

	return concerts, nil
}

// firstMatch returns the first match of re in any of texts
func firstMatch(re *regexp.Regexp, texts []string) string {
	for _, t := range texts {
		if m := re.FindString(t); m != "" {
			return m
		}
	}
	return ""
}

// firstContaining returns the first text that re matches
func firstContaining(re *regexp.Regexp, texts []string) string {
	for _, t := range texts {
		if re.MatchString(t) {
			return t
		}
	}
	return ""
}

package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	OdeonURL   = "https://odeonodense.dk"
	odeonVenue = "ODEON"
)

// Odeon lists the concerts in ODEON's calendar. The calendar has no prices,
// so every concert costs one extra request for its event page.
type Odeon struct {
	fetcher *Fetcher
	baseURL string
}

// NewOdeon creates the ODEON source
func NewOdeon(f *Fetcher) *Odeon {
	return &Odeon{
		fetcher: f,
		baseURL: OdeonURL,
	}
}

func (o *Odeon) Name() string { return "odeon" }

func (o *Odeon) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	doc, err := o.fetcher.Document(ctx, Get(o.baseURL+"/kalender"))
	if err != nil {
		return nil, err
	}

	concerts, err := o.parse(doc)
	if err != nil {
		return nil, err
	}

	for _, c := range concerts {
		page, err := o.fetcher.Document(ctx, Get(c.URL))
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", c.Title, err)
		}
		o.price(page).Apply(c)
	}

	return concerts, nil
}

func (o *Odeon) parse(doc *goquery.Document) ([]*concert.Concert, error) {
	concerts := make([]*concert.Concert, 0)

	events := doc.Find(`a[data-js-filter-item*="koncert"]`)
	for i := 0; i < events.Length(); i++ {
		event := events.Eq(i)

		title, err := requireText(event, "h2", "title")
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}

		label := clean(event.Find(".text-link").Last().Text())
		if label == "" {
			return nil, fmt.Errorf("event %q: %w: date (.text-link)", title, ErrMissingField)
		}
		parts := strings.Split(label, " - ")
		date, err := ParseDanishDate("Monday 2. Jan 2006", parts[len(parts)-1])
		if err != nil {
			return nil, fmt.Errorf("event %q: parsing date: %w", title, err)
		}

		href, ok := event.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return nil, fmt.Errorf("event %q: %w: url", title, ErrMissingField)
		}

		img := BestFromImg(event.Find("source").First())
		if img == "" {
			img = BestFromImg(event.Find("img").First())
		}
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": o.Name(), "title": title})
			continue
		}

		concerts = append(concerts, &concert.Concert{
			Title:  title,
			Venue:  odeonVenue,
			Date:   date,
			Desc:   text(event, ".mt-6 > span"),
			ImgURL: resolve(o.baseURL, img),
			URL:    resolve(o.baseURL, href),
		})
	}

	return concerts, nil
}

// price reads the first text of the event page's ticket block
func (o *Odeon) price(page *goquery.Document) Price {
	texts := textNodes(page.Find(".mt-8").First())
	if len(texts) == 0 {
		return Price{}
	}
	return ParsePrice(texts[0])
}

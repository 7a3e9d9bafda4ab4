package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/filter"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	StormsURL   = "https://stormspakhus.dk"
	stormsVenue = "Storms Pakhus"
)

// "oktober 24 @ 20:00", possibly followed by an end time
var stormsDate = regexp.MustCompile(`(\p{L}+)\s+(\d{1,2})\s*@\s*(\d{1,2}:\d{2})`)

// Storms lists the concerts of Storms Pakhus. The events page mixes concerts
// with food and market events; only titles mentioning "koncert" are kept.
type Storms struct {
	fetcher *Fetcher
	baseURL string
	filter  *filter.Filter
	now     func() time.Time
}

// NewStorms creates the Storms Pakhus source
func NewStorms(f *Fetcher) *Storms {
	return &Storms{
		fetcher: f,
		baseURL: StormsURL,
		filter:  &filter.Filter{RequireTitle: []string{"koncert"}},
		now:     time.Now,
	}
}

func (s *Storms) Name() string { return "storms" }

func (s *Storms) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	doc, err := s.fetcher.Document(ctx, Get(s.baseURL+"/events/"))
	if err != nil {
		return nil, err
	}
	return s.parse(doc)
}

func (s *Storms) parse(doc *goquery.Document) ([]*concert.Concert, error) {
	now := s.now()
	concerts := make([]*concert.Concert, 0)

	events := doc.Find(".fl-post-feed-post")
	for i := 0; i < events.Length(); i++ {
		event := events.Eq(i)

		link := event.Find(".fl-post-feed-title a").First()
		title := clean(link.AttrOr("title", ""))
		if title == "" {
			title = clean(link.Text())
		}
		if title == "" {
			return nil, fmt.Errorf("event %d: %w: title", i, ErrMissingField)
		}
		if !s.filter.Matches(filter.Candidate{Title: title}) {
			logger.Debug("Skipping non-concert event", logger.Fields{"source": s.Name(), "title": title})
			continue
		}
		title = strings.TrimSpace(strings.TrimSuffix(title, " // Gratis Koncert"))

		dateText, err := requireText(event, ".fl-post-grid-event-calendar-date span", "date")
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", title, err)
		}
		date, err := parseStormsDate(dateText, now)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", title, err)
		}

		img := resolve(s.baseURL, BestFromImg(event.Find(".fl-post-feed-image a img").First()))
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": s.Name(), "title": title})
			continue
		}

		concerts = append(concerts, &concert.Concert{
			Title:  title,
			Venue:  stormsVenue,
			Date:   date,
			Price:  concert.IntPtr(0),
			Desc:   text(event, ".fl-post-feed-content p"),
			ImgURL: img,
			URL:    resolve(s.baseURL, link.AttrOr("href", "")),
		})
	}

	return concerts, nil
}

// parseStormsDate reads the yearless "<month> <day> @ <HH:MM>" calendar label
func parseStormsDate(label string, now time.Time) (time.Time, error) {
	m := stormsDate.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", label)
	}
	t, err := ParseDanishDate("January 2 @ 15:04", m[1]+" "+m[2]+" @ "+m[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", label, err)
	}
	return InferYear(t, now), nil
}

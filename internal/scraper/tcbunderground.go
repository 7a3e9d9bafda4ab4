package scraper

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	TCBUndergroundURL    = "https://tcbunderground.com"
	TicketbutlerAPIURL   = "https://checkoutapi.ticketbutler.io"
	tcbUndergroundVenue  = "TCB Underground"
	tcbUndergroundTicket = "https://tcbunderground.ticketbutler.io"
)

// TCBUnderground lists the concerts of TCB Underground. The listing only has
// links; title, date, image and price come from the Ticketbutler checkout API.
type TCBUnderground struct {
	fetcher *Fetcher
	baseURL string
	apiURL  string
}

// NewTCBUnderground creates the TCB Underground source
func NewTCBUnderground(f *Fetcher) *TCBUnderground {
	return &TCBUnderground{
		fetcher: f,
		baseURL: TCBUndergroundURL,
		apiURL:  TicketbutlerAPIURL,
	}
}

func (t *TCBUnderground) Name() string { return "tcbunderground" }

type ticketbutlerEvent struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	Images    []struct {
		Image string `json:"image"`
	} `json:"images"`
	TicketTypes []struct {
		Price amount `json:"price"`
	} `json:"ticket_types"`
}

func (t *TCBUnderground) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	req := Get(t.baseURL + "/arrangementer")
	req.UTF8 = true
	doc, err := t.fetcher.Document(ctx, req)
	if err != nil {
		return nil, err
	}

	links, err := t.links(doc)
	if err != nil {
		return nil, err
	}

	concerts := make([]*concert.Concert, 0, len(links))
	for _, link := range links {
		slug, err := ticketSlug(link)
		if err != nil {
			return nil, err
		}

		var info ticketbutlerEvent
		req := Get(t.apiURL + "/api/events/title/" + url.PathEscape(slug) + "/").WithHeaders(map[string]string{
			"Origin":  tcbUndergroundTicket,
			"Referer": tcbUndergroundTicket + "/",
		})
		if err := t.fetcher.JSON(ctx, req, &info); err != nil {
			return nil, fmt.Errorf("event %s: %w", slug, err)
		}

		c, err := t.convert(info, link)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", slug, err)
		}
		if c != nil {
			concerts = append(concerts, c)
		}
	}

	return concerts, nil
}

// links returns the ticket link of every listing row
func (t *TCBUnderground) links(doc *goquery.Document) ([]string, error) {
	rows := doc.Find("tbody tr")
	links := make([]string, 0, rows.Length())
	for i := 0; i < rows.Length(); i++ {
		href, err := requireAttr(rows.Eq(i), "a", "href", "url")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		links = append(links, resolve(t.baseURL, href))
	}
	return links, nil
}

// ticketSlug extracts the event slug, the last path segment of a ticket link
func ticketSlug(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing ticket link %q: %w", link, err)
	}
	slug := path.Base(strings.TrimSuffix(u.Path, "/"))
	if slug == "" || slug == "." || slug == "/" {
		return "", fmt.Errorf("no event slug in ticket link %q", link)
	}
	return slug, nil
}

func (t *TCBUnderground) convert(info ticketbutlerEvent, link string) (*concert.Concert, error) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	date, err := concert.ParseDate(info.StartDate)
	if err != nil {
		return nil, err
	}
	if len(info.Images) == 0 || strings.TrimSpace(info.Images[0].Image) == "" {
		logger.Warn("No image, skipping", logger.Fields{"source": t.Name(), "title": title})
		return nil, nil
	}

	c := &concert.Concert{
		Title:  title,
		Venue:  tcbUndergroundVenue,
		Date:   date,
		ImgURL: info.Images[0].Image,
		URL:    link,
	}
	if len(info.TicketTypes) > 0 {
		info.TicketTypes[0].Price.Apply(c)
	}
	return c, nil
}

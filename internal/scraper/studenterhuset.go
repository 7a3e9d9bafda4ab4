package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	YourTicketAPIURL    = "https://publicapi.yourticket.dk"
	yourTicketSite      = "https://www.yourticket.dk"
	yourTicketKey       = "3-9D8DC9C1-576A-4727-890C-5F140E4D03F5"
	studenterhusetVenue = "Studenterhus Odense"
	// studenterhusetOrganizer and musicCategory select Studenterhus Odense's music events.
	studenterhusetOrganizer = "671"
	musicCategory           = "2"
)

// Studenterhuset lists the concerts of Studenterhus Odense from the
// YourTicket overview API
type Studenterhuset struct {
	fetcher *Fetcher
	baseURL string
}

// NewStudenterhuset creates the Studenterhus Odense source
func NewStudenterhuset(f *Fetcher) *Studenterhuset {
	return &Studenterhuset{
		fetcher: f,
		baseURL: YourTicketAPIURL,
	}
}

func (s *Studenterhuset) Name() string { return "studenterhuset" }

type yourTicketQuery struct {
	PageNum    int    `json:"pagenum"`
	Categories string `json:"ytfiltercategories"`
	City       string `json:"ytfiltercity"`
	Date       string `json:"ytfilterdate"`
	Search     string `json:"ytfiltersearch"`
	Organizer  string `json:"ytfilterarrid"`
}

type yourTicketEvent struct {
	Name             string `json:"Name"`
	StartDate        string `json:"StartDate"`
	ShortDescription string `json:"ShortDescription"`
	Image            string `json:"Image"`
	YTRoute          string `json:"YTRoute"`
	FromPrice        amount `json:"FromPrice"`
}

func (s *Studenterhuset) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	req, err := PostJSON(s.baseURL+"/Events/GetEventsForOverview", yourTicketQuery{
		Categories: musicCategory,
		Organizer:  studenterhusetOrganizer,
	})
	if err != nil {
		return nil, err
	}
	// The API ignores requests without these headers.
	req = req.WithHeaders(map[string]string{
		"Origin":  yourTicketSite,
		"Referer": "https://www.yourtickets.dk",
		"Key":     yourTicketKey,
	})

	var events []yourTicketEvent
	if err := s.fetcher.JSON(ctx, req, &events); err != nil {
		return nil, err
	}
	return s.convert(events)
}

func (s *Studenterhuset) convert(events []yourTicketEvent) ([]*concert.Concert, error) {
	concerts := make([]*concert.Concert, 0, len(events))

	for _, e := range events {
		title := strings.TrimSpace(strings.TrimSuffix(e.Name, " // Studenterhus Odense"))
		date, err := ParseDanishDate("2. January 2006 kl. 15:04", e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("event %q: parsing date: %w", title, err)
		}

		img := strings.TrimSpace(e.Image)
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": s.Name(), "title": title})
			continue
		}

		c := &concert.Concert{
			Title:  title,
			Venue:  studenterhusetVenue,
			Date:   date,
			Desc:   strings.TrimSpace(e.ShortDescription),
			ImgURL: img,
			URL:    yourTicketSite + e.YTRoute,
		}
		e.FromPrice.Apply(c)

		concerts = append(concerts, c)
	}

	return concerts, nil
}

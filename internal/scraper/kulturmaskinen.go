package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/filter"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	KulturmaskinenAPIURL = "https://api.uheadless.com"
	kulturmaskinenSite   = "https://kulturmaskinen.dk/events/"

	// kulturmaskinenQuery asks the headless CMS for every ticketed event with
	// at least one show, sorted by the first show time.
	kulturmaskinenQuery = "/api?token=6dc733b1-53a0-4c6a-b469-8ae912316dc4&depth=6&lang=en-us" +
		"&postdata=JTdCJTIybGltaXQlMjIlM0E5OTk5OSUyQyUyMnF1ZXJ5JTIyJTNBJTdCJTIyY29udGVudFR5cGVBbGlhcyUyMiUzQSUyMmJpbGxldHRlbkV2ZW50JTIyJTJDJTIycGFyZW50SWQlMjIlM0ElN0IlMjJuZSUyMiUzQTEyMDQlN0QlMkMlMjJwcm9wZXJ0aWVzLmJpbGxldHRlbl9kYXRhLnNob3dzLjAlMjIlM0ElN0IlMjJleGlzdHMlMjIlM0ExJTdEJTdEJTJDJTIyc29ydEJ5JTIyJTNBJTIycHJvcGVydGllcy5iaWxsZXR0ZW5fZGF0YS5zaG93cy4wLnNob3dfdGltZSUyMiUyQyUyMnNvcnQlMjIlM0ElMjJhc2MlMjIlN0Q"
)

// Kulturmaskinen lists the music events sold through Kulturmaskinen's
// headless CMS. The promoter name is used as venue.
type Kulturmaskinen struct {
	fetcher *Fetcher
	baseURL string
	filter  *filter.Filter
}

// NewKulturmaskinen creates the Kulturmaskinen source
func NewKulturmaskinen(f *Fetcher) *Kulturmaskinen {
	return &Kulturmaskinen{
		fetcher: f,
		baseURL: KulturmaskinenAPIURL,
		filter:  &filter.Filter{Categories: []string{"MUSIK"}},
	}
}

func (k *Kulturmaskinen) Name() string { return "kulturmaskinen" }

type kulturmaskinenEvent struct {
	URLSegment string `json:"urlSegment"`
	Properties struct {
		CategoryValue string `json:"category_value"`
		EventName     string `json:"event_name"`
		Promoter      struct {
			NodeName string `json:"nodeName"`
		} `json:"promoter"`
		Billetten struct {
			EventNotes  string `json:"event_notes"`
			EventImages struct {
				Large string `json:"large"`
			} `json:"event_images"`
			Shows []struct {
				ShowTime string `json:"show_time"`
				Prices   []struct {
					MinPrice amount `json:"min_price"`
				} `json:"prices"`
			} `json:"shows"`
		} `json:"billetten_data"`
	} `json:"properties"`
}

func (k *Kulturmaskinen) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	var events []kulturmaskinenEvent
	if err := k.fetcher.JSON(ctx, Get(k.baseURL+kulturmaskinenQuery), &events); err != nil {
		return nil, err
	}
	return k.convert(events)
}

func (k *Kulturmaskinen) convert(events []kulturmaskinenEvent) ([]*concert.Concert, error) {
	concerts := make([]*concert.Concert, 0)

	for _, e := range events {
		p := e.Properties
		if !k.filter.Matches(filter.Candidate{Title: p.EventName, Category: p.CategoryValue}) {
			continue
		}

		shows := p.Billetten.Shows
		if len(shows) == 0 {
			logger.Warn("Event has no shows", logger.Fields{"source": k.Name(), "title": p.EventName})
			continue
		}
		if len(shows) != 1 {
			logger.Warn("Event has more than one show, using the first", logger.Fields{
				"source": k.Name(),
				"title":  p.EventName,
				"shows":  len(shows),
			})
		}

		date, err := concert.ParseDate(shows[0].ShowTime)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", p.EventName, err)
		}

		img := strings.TrimSpace(p.Billetten.EventImages.Large)
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": k.Name(), "title": p.EventName})
			continue
		}

		c := &concert.Concert{
			Title:  strings.TrimSpace(p.EventName),
			Venue:  strings.TrimSpace(p.Promoter.NodeName),
			Date:   date,
			Desc:   strings.TrimSpace(p.Billetten.EventNotes),
			ImgURL: img,
			URL:    kulturmaskinenSite + e.URLSegment,
		}
		if len(shows[0].Prices) > 0 {
			shows[0].Prices[0].MinPrice.Apply(c)
		}

		concerts = append(concerts, c)
	}

	return concerts, nil
}

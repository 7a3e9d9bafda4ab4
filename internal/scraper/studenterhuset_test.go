package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

const yourTicketJSON = `[
  {
    "Name": "Blæst // Studenterhus Odense",
    "StartDate": "20. november 2026 kl. 21:00",
    "ShortDescription": " Aarhus-rock på Studenterhuset ",
    "Image": "https://img.yourticket.dk/blaest.jpg",
    "YTRoute": "/event/blaest-studenterhus",
    "FromPrice": 150
  },
  {
    "Name": "Fredagsbar med DJ",
    "StartDate": "27. november 2026 kl. 22:00",
    "ShortDescription": "",
    "Image": "https://img.yourticket.dk/dj.jpg",
    "YTRoute": "/event/fredagsbar",
    "FromPrice": 0
  }
]`

func TestStudenterhuset_Fetch(t *testing.T) {
	var query yourTicketQuery
	var key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Events/GetEventsForOverview" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		key = r.Header.Get("Key")
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(yourTicketJSON))
	}))
	defer server.Close()

	s := NewStudenterhuset(newTestFetcher())
	s.baseURL = server.URL

	concerts, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if key == "" {
		t.Error("request carried no API key")
	}
	if query.Organizer != "671" || query.Categories != "2" {
		t.Errorf("query = %+v, want organizer 671 category 2", query)
	}
	if len(concerts) != 2 {
		t.Fatalf("Fetch() returned %d concerts, want 2", len(concerts))
	}

	c := concerts[0]
	if c.Title != "Blæst" || c.Venue != "Studenterhus Odense" {
		t.Errorf("got %q at %q", c.Title, c.Venue)
	}
	wantDate(t, c, time.Date(2026, 11, 20, 21, 0, 0, 0, concert.Location))
	wantPrice(t, c, 150)
	if c.Desc != "Aarhus-rock på Studenterhuset" {
		t.Errorf("Desc = %q", c.Desc)
	}
	if c.URL != "https://www.yourticket.dk/event/blaest-studenterhus" {
		t.Errorf("URL = %q", c.URL)
	}

	wantPrice(t, concerts[1], 0)
}

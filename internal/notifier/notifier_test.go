package notifier

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/render"
)

func sampleConcerts() []*concert.Concert {
	return []*concert.Concert{
		{
			Title: "Aqua",
			Venue: "ODEON",
			Date:  time.Date(2026, time.November, 14, 20, 0, 0, 0, concert.Location),
			Price: concert.IntPtr(1295),
			URL:   "https://odeon.dk/aqua",
		},
		{
			Title:   "Dodo & The Dodos",
			Venue:   "Posten",
			Date:    time.Date(2026, time.November, 20, 0, 0, 0, 0, concert.Location),
			SoldOut: true,
			URL:     "https://posten.dk/dodo",
		},
		{
			Title: "Julekoncert",
			Venue: "Storms Pakhus",
			Date:  time.Date(2026, time.December, 3, 19, 30, 0, 0, concert.Location),
			URL:   "https://stormspakhus.dk/jul",
		},
	}
}

func TestFormatTweet(t *testing.T) {
	concerts := sampleConcerts()

	tests := []struct {
		name        string
		concert     *concert.Concert
		contains    []string
		notContains []string
	}{
		{
			name:    "with time and price",
			concert: concerts[0],
			contains: []string{
				"Aqua",
				"ODEON",
				"lørdag 14. november 2026 kl. 20:00",
				"1.295 kr.",
				"https://odeon.dk/aqua",
				"#Odense",
			},
		},
		{
			name:        "sold out without time",
			concert:     concerts[1],
			contains:    []string{"Udsolgt", "fredag 20. november 2026\n"},
			notContains: []string{" kl. "},
		},
		{
			name:        "unknown price",
			concert:     concerts[2],
			contains:    []string{"kl. 19:30"},
			notContains: []string{"🎟️"},
		},
		{
			name: "very long title gets truncated",
			concert: &concert.Concert{
				Title: strings.Repeat("Æblekage og flødeskum ", 20),
				Venue: "Magasinet",
				Date:  time.Date(2026, time.November, 14, 20, 0, 0, 0, concert.Location),
				URL:   "https://example.com",
			},
			contains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTweet(render.DefaultFormat(), tt.concert)

			if n := utf8.RuneCountInString(got); n > maxTweetLength {
				t.Errorf("formatTweet() length = %d, want <= %d", n, maxTweetLength)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatTweet() missing %q in tweet:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("formatTweet() should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("kort", 10); got != "kort" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	if got := truncate("æøåæøåæøå", 6); got != "æøå..." {
		t.Errorf("truncate() = %q, want %q", got, "æøå...")
	}
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewDryRunNotifier(&buf, render.DefaultFormat())

	if err := notifier.Notify(context.Background(), sampleConcerts()); err != nil {
		t.Fatalf("DryRunNotifier.Notify() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{"--- Tweet 1/3 ---", "--- Tweet 3/3 ---", "Dodo & The Dodos", "(Length: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// recordingTransport answers Twitter API calls and keeps the posted statuses
type recordingTransport struct {
	mu       sync.Mutex
	statuses []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	form, _ := url.ParseQuery(string(body))

	rt.mu.Lock()
	rt.statuses = append(rt.statuses, form.Get("status"))
	rt.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"id": 1, "text": "ok"}`)),
		Request:    req,
	}, nil
}

func TestTwitterNotifier_Notify(t *testing.T) {
	rt := &recordingTransport{}
	n := newTwitterNotifier(&http.Client{Transport: rt}, render.DefaultFormat(), 2, time.Millisecond)

	if err := n.Notify(context.Background(), sampleConcerts()); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if len(rt.statuses) != 2 {
		t.Fatalf("posted %d tweets, want 2 (limit)", len(rt.statuses))
	}
	if !strings.Contains(rt.statuses[0], "Aqua") {
		t.Errorf("first tweet = %q, want Aqua", rt.statuses[0])
	}
	if !strings.Contains(rt.statuses[1], "Dodo & The Dodos") {
		t.Errorf("second tweet = %q, want Dodo & The Dodos", rt.statuses[1])
	}
}

func TestTwitterNotifier_Cancelled(t *testing.T) {
	rt := &recordingTransport{}
	n := newTwitterNotifier(&http.Client{Transport: rt}, render.DefaultFormat(), 0, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Notify(ctx, sampleConcerts()); err == nil {
		t.Error("expected context error while waiting between tweets")
	}
}

func TestNewTwitterNotifier_MissingCredentials(t *testing.T) {
	t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TWITTER_API_SECRET", "secret")
	t.Setenv("TWITTER_ACCESS_TOKEN", "token")
	t.Setenv("TWITTER_ACCESS_SECRET", "secret")

	if _, err := NewTwitterNotifier(render.DefaultFormat(), 10, time.Second); err != ErrMissingCredentials {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}

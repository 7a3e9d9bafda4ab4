package concert

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleConcerts() []*Concert {
	return []*Concert{
		{
			Title:  "Lars Lilholt",
			Venue:  "Posten",
			Date:   time.Date(2026, 11, 14, 20, 0, 0, 0, Location),
			Price:  IntPtr(295),
			Desc:   "Lilholt spiller de største hits",
			ImgURL: "https://postenlive.dk/img/lilholt.jpg",
			URL:    "https://postenlive.dk/event/lilholt",
		},
		{
			Title:  "Gratis fredagsjazz",
			Venue:  "Storms Pakhus",
			Date:   time.Date(2026, 11, 6, 17, 30, 0, 0, Location),
			Price:  IntPtr(0),
			ImgURL: "https://stormspakhus.dk/jazz.jpg",
			URL:    "https://stormspakhus.dk/events/jazz",
		},
		{
			Title:   "Udsolgt koncert",
			Venue:   "Dexter",
			Date:    time.Date(2026, 12, 1, 0, 0, 0, 0, Location),
			SoldOut: true,
			ImgURL:  "https://dexter.dk/img.jpg",
			URL:     "https://dexter.dk/event/udsolgt",
		},
	}
}

func concertsEqual(a, b *Concert) bool {
	if (a.Price == nil) != (b.Price == nil) {
		return false
	}
	if a.Price != nil && *a.Price != *b.Price {
		return false
	}
	return a.Title == b.Title &&
		a.Venue == b.Venue &&
		a.Date.Equal(b.Date) &&
		a.SoldOut == b.SoldOut &&
		a.Desc == b.Desc &&
		a.ImgURL == b.ImgURL &&
		a.URL == b.URL
}

func TestLoadDumpRoundTrip(t *testing.T) {
	original := sampleConcerts()

	loaded, err := Load(Dump(original))
	if err != nil {
		t.Fatalf("Load(Dump()) error: %v", err)
	}

	if len(loaded) != len(original) {
		t.Fatalf("Load(Dump()) returned %d concerts, want %d", len(loaded), len(original))
	}

	for i := range original {
		if !concertsEqual(loaded[i], original[i]) {
			t.Errorf("concert %d = %+v, want %+v", i, loaded[i], original[i])
		}
		if loaded[i].ID() != original[i].ID() {
			t.Errorf("concert %d ID changed across round trip", i)
		}
	}
}

func TestLoadDumpRoundTrip_EdgeDates(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{"nanoseconds", time.Date(2026, 5, 1, 20, 0, 0, 123456789, Location)},
		{"first pass of repeated hour", time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC)},
		{"second pass of repeated hour", time.Date(2024, 10, 27, 1, 30, 0, 0, time.UTC)},
		{"day after fall-back", time.Date(2024, 10, 28, 19, 0, 0, 0, Location)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleConcerts()[0]
			c.Date = tt.date

			loaded, err := Load(Dump([]*Concert{c}))
			if err != nil {
				t.Fatalf("Load(Dump()) error: %v", err)
			}
			if !loaded[0].Date.Equal(tt.date) {
				t.Errorf("date = %v, want %v (written as %q)", loaded[0].Date, tt.date, FormatDate(tt.date))
			}
			if loaded[0].ID() != c.ID() {
				t.Error("ID changed across round trip")
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleConcerts()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	for _, field := range []string{`"title"`, `"venue"`, `"date": "2026-11-14T20:00:00"`, `"price": null`, `"sold_out": true`, `"desc"`, `"img_url"`, `"url"`} {
		if !strings.Contains(out, field) {
			t.Errorf("Write() output missing %s", field)
		}
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("Read() returned %d concerts, want 3", len(loaded))
	}
	if !concertsEqual(loaded[0], sampleConcerts()[0]) {
		t.Errorf("Read()[0] = %+v", loaded[0])
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"missing date", []Record{{Title: "No date", Venue: "Posten"}}},
		{"malformed date", []Record{{Title: "Bad", Venue: "Posten", Date: "14. november"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.records); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive date-time", "2026-05-01T20:00:00", time.Date(2026, 5, 1, 20, 0, 0, 0, Location)},
		{"microseconds", "2026-05-01T20:00:00.250000", time.Date(2026, 5, 1, 20, 0, 0, 250000000, Location)},
		{"space separator", "2026-05-01 19:30:00", time.Date(2026, 5, 1, 19, 30, 0, 0, Location)},
		{"date only", "2026-05-01", time.Date(2026, 5, 1, 0, 0, 0, 0, Location)},
		{"utc offset", "2026-05-01T18:00:00Z", time.Date(2026, 5, 1, 20, 0, 0, 0, Location)},
		{"explicit offset", "2026-01-10T20:00:00+01:00", time.Date(2026, 1, 10, 20, 0, 0, 0, Location)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 5, 1, 20, 0, 0, 0, Location), "2026-05-01T20:00:00"},
		{time.Date(2026, 5, 1, 0, 0, 0, 0, Location), "2026-05-01T00:00:00"},
		{time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), "2026-05-01T20:00:00"},
		{time.Date(2026, 5, 1, 20, 0, 0, 123456789, Location), "2026-05-01T20:00:00.123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDate(tt.in); got != tt.want {
				t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestID(t *testing.T) {
	c := sampleConcerts()[0]

	id1 := c.ID()
	id2 := c.ID()
	if id1 != id2 {
		t.Errorf("ID should be deterministic, got %s vs %s", id1, id2)
	}
	if len(id1) != 40 { // SHA1 produces 40 hex characters
		t.Errorf("expected ID length of 40, got %d", len(id1))
	}

	moved := *c
	moved.Date = moved.Date.AddDate(0, 0, 1)
	if moved.ID() == id1 {
		t.Error("ID should change when the date changes")
	}
}

func TestHasTime(t *testing.T) {
	timed := &Concert{Date: time.Date(2026, 5, 1, 20, 0, 0, 0, Location)}
	dateOnly := &Concert{Date: time.Date(2026, 5, 1, 0, 0, 0, 0, Location)}

	if !timed.HasTime() {
		t.Error("HasTime() = false for 20:00 concert")
	}
	if dateOnly.HasTime() {
		t.Error("HasTime() = true for date-only concert")
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2026, 5, 10, 21, 0, 0, 0, Location)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", time.Date(2026, 5, 9, 20, 0, 0, 0, Location), true},
		{"earlier today", time.Date(2026, 5, 10, 19, 0, 0, 0, Location), false},
		{"midnight today", time.Date(2026, 5, 10, 0, 0, 0, 0, Location), false},
		{"tomorrow", time.Date(2026, 5, 11, 0, 0, 0, 0, Location), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Concert{Date: tt.date}
			if got := c.IsPast(now); got != tt.want {
				t.Errorf("IsPast() = %v, want %v", got, tt.want)
			}
		})
	}
}

package concert

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Concert represents a single concert listing from one venue source
type Concert struct {
	Title string
	Venue string
	Date  time.Time
	// Price is nil when unknown or sold out, 0 for free events.
	Price   *int
	SoldOut bool
	Desc    string
	ImgURL  string
	URL     string
}

// Record is the persisted form of a Concert. The date is kept as ISO-8601 text.
type Record struct {
	Title   string `json:"title"`
	Venue   string `json:"venue"`
	Date    string `json:"date"`
	Price   *int   `json:"price"`
	SoldOut bool   `json:"sold_out"`
	Desc    string `json:"desc"`
	ImgURL  string `json:"img_url"`
	URL     string `json:"url"`
}

// IntPtr returns a pointer to n, for building prices.
func IntPtr(n int) *int {
	return &n
}

// ID returns a deterministic identifier based on venue, title and date
func (c *Concert) ID() string {
	h := sha1.New()
	h.Write([]byte(c.Venue + "|" + c.Title + "|" + FormatDate(c.Date)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HasTime reports whether the source gave a time of day, not just a date.
func (c *Concert) HasTime() bool {
	t := c.Date.In(Location)
	return t.Hour() != 0 || t.Minute() != 0
}

// IsPast reports whether the concert's calendar day lies before the day of now.
// Concerts later today are not past even if their start time has passed.
func (c *Concert) IsPast(now time.Time) bool {
	return day(c.Date).Before(day(now))
}

func day(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// Record converts the concert into its persisted form
func (c *Concert) Record() Record {
	return Record{
		Title:   c.Title,
		Venue:   c.Venue,
		Date:    FormatDate(c.Date),
		Price:   c.Price,
		SoldOut: c.SoldOut,
		Desc:    c.Desc,
		ImgURL:  c.ImgURL,
		URL:     c.URL,
	}
}

// Load parses persisted records into concerts. Only the date is converted;
// every other field passes through unchanged.
func Load(records []Record) ([]*Concert, error) {
	concerts := make([]*Concert, 0, len(records))
	for i, r := range records {
		if r.Date == "" {
			return nil, fmt.Errorf("record %d (%q): missing date", i, r.Title)
		}
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Title, err)
		}
		concerts = append(concerts, &Concert{
			Title:   r.Title,
			Venue:   r.Venue,
			Date:    date,
			Price:   r.Price,
			SoldOut: r.SoldOut,
			Desc:    r.Desc,
			ImgURL:  r.ImgURL,
			URL:     r.URL,
		})
	}
	return concerts, nil
}

// Dump is the inverse of Load
func Dump(concerts []*Concert) []Record {
	records := make([]Record, 0, len(concerts))
	for _, c := range concerts {
		records = append(records, c.Record())
	}
	return records
}

// Read decodes a JSON array of records from r
func Read(r io.Reader) ([]*Concert, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding concerts: %w", err)
	}
	return Load(records)
}

// Write encodes concerts to w as an indented JSON array
func Write(w io.Writer, concerts []*Concert) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(Dump(concerts)); err != nil {
		return fmt.Errorf("encoding concerts: %w", err)
	}
	return nil
}

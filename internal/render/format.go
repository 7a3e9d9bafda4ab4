package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	weekdays = [...]string{"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag"}
	months   = [...]string{"januar", "februar", "marts", "april", "maj", "juni", "juli", "august", "september", "oktober", "november", "december"}
)

// Format controls how values are written on the page
type Format struct {
	Language language.Tag
	// Currency is appended to amounts, e.g. "kr.".
	Currency string
	Location *time.Location
}

// DefaultFormat formats for Danish readers in Copenhagen time
func DefaultFormat() Format {
	return Format{
		Language: language.MustParse("da-DK"),
		Currency: "kr.",
		Location: concert.Location,
	}
}

// NewFormat builds a Format from a BCP 47 tag such as "da-DK"
func NewFormat(lang, currency string, loc *time.Location) (Format, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return Format{}, err
	}
	if loc == nil {
		loc = concert.Location
	}
	return Format{Language: tag, Currency: currency, Location: loc}, nil
}

func (f Format) in(t time.Time) time.Time {
	if f.Location == nil {
		return t.In(concert.Location)
	}
	return t.In(f.Location)
}

// Amount writes n with the language's digit grouping: 1295 -> "1.295 kr."
func (f Format) Amount(n int) string {
	s := message.NewPrinter(f.Language).Sprintf("%d", n)
	if f.Currency == "" {
		return s
	}
	return s + " " + f.Currency
}

// Price describes a concert's ticket price. Unknown prices give "".
func (f Format) Price(c *concert.Concert) string {
	switch {
	case c.SoldOut:
		return "Udsolgt"
	case c.Price == nil:
		return ""
	case *c.Price == 0:
		return "Gratis"
	default:
		return f.Amount(*c.Price)
	}
}

// Date writes the day, e.g. "lørdag 14. november"
func (f Format) Date(t time.Time) string {
	t = f.in(t)
	return weekdays[t.Weekday()] + " " + itoa(t.Day()) + ". " + months[t.Month()-1]
}

// Time writes the time of day, or "" for midnight which means no time was given
func (f Format) Time(t time.Time) string {
	t = f.in(t)
	if t.Hour() == 0 && t.Minute() == 0 {
		return ""
	}
	return t.Format("15:04")
}

// Month writes the month heading, e.g. "november 2026"
func (f Format) Month(t time.Time) string {
	t = f.in(t)
	return months[t.Month()-1] + " " + itoa(t.Year())
}

// ISODate writes a local date-time the browser parses as local time
func (f Format) ISODate(t time.Time) string {
	return f.in(t).Format("2006-01-02T15:04")
}

// Long writes date and time for messages, e.g. "lørdag 14. november 2026 kl. 20:00"
func (f Format) Long(t time.Time) string {
	s := f.Date(t) + " " + itoa(f.in(t).Year())
	if clock := f.Time(t); clock != "" {
		s += " kl. " + clock
	}
	return s
}

// Generated writes the page timestamp, e.g. "19. oktober 2026 kl. 14:05"
func (f Format) Generated(t time.Time) string {
	t = f.in(t)
	return itoa(t.Day()) + ". " + months[t.Month()-1] + " " + itoa(t.Year()) + " kl. " + t.Format("15:04")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// searchKey is matched against the visitor's lowercased query
func searchKey(c *concert.Concert) string {
	return strings.ToLower(c.Title + " " + c.Venue)
}

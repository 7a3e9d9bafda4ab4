package concert

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Copenhagen must resolve on hosts without zoneinfo
)

// Location is the wall-clock zone that persisted dates are read and written in.
// The JSON format carries no offset.
var Location = mustLoad("Europe/Copenhagen")

// isoLayout mirrors an offset-free ISO-8601 date-time. Fractional seconds are
// only written when present.
const (
	isoLayout       = "2006-01-02T15:04:05.999999999"
	isoOffsetLayout = "2006-01-02T15:04:05.999999999Z07:00"
)

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("loading time zone %s: %v", name, err))
	}
	return loc
}

// SetLocation changes the zone used for reading and writing dates.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("loading time zone %s: %w", name, err)
	}
	Location = loc
	return nil
}

// FormatDate renders t as offset-free ISO-8601 in Location. Inside the
// repeated hour after a DST fall-back the wall clock names two instants, so
// the one that does not read back from the bare text carries its offset.
func FormatDate(t time.Time) string {
	local := t.In(Location)
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), Location)
	if !wall.Equal(local) {
		return local.Format(isoOffsetLayout)
	}
	return local.Format(isoLayout)
}

// ParseDate parses ISO-8601 text. Values with an explicit offset are converted
// to Location; values without one are taken as wall clock in Location.
// A bare date yields midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(Location), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid ISO-8601 date: %q", s)
}

package scraper

import (
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

// yearlessGrace is how far in the past a date without a year may fall before
// it is moved to next year.
const yearlessGrace = 60 * 24 * time.Hour

var danishWord = regexp.MustCompile(`\p{L}+`)

// danishNames maps Danish month and weekday names, full and abbreviated, to
// the English names the time package parses.
var danishNames = map[string]string{
	"januar":    "January",
	"februar":   "February",
	"marts":     "March",
	"april":     "April",
	"maj":       "May",
	"juni":      "June",
	"juli":      "July",
	"august":    "August",
	"september": "September",
	"oktober":   "October",
	"november":  "November",
	"december":  "December",
	"jan":       "Jan",
	"feb":       "Feb",
	"mar":       "Mar",
	"apr":       "Apr",
	"jun":       "Jun",
	"jul":       "Jul",
	"aug":       "Aug",
	"sep":       "Sep",
	"sept":      "Sep",
	"okt":       "Oct",
	"nov":       "Nov",
	"dec":       "Dec",
	"mandag":    "Monday",
	"tirsdag":   "Tuesday",
	"onsdag":    "Wednesday",
	"torsdag":   "Thursday",
	"fredag":    "Friday",
	"lørdag":    "Saturday",
	"søndag":    "Sunday",
	"man":       "Mon",
	"tir":       "Tue",
	"ons":       "Wed",
	"tor":       "Thu",
	"fre":       "Fri",
	"lør":       "Sat",
	"søn":       "Sun",
}

// translateDanish replaces Danish month and weekday names with English ones
func translateDanish(s string) string {
	return danishWord.ReplaceAllStringFunc(s, func(word string) string {
		if english, ok := danishNames[strings.ToLower(word)]; ok {
			return english
		}
		return word
	})
}

// ParseDanishDate parses a date written with Danish month or weekday names.
// The layout uses the English reference names, e.g. "2. January 2006".
// The result is wall clock in concert.Location.
func ParseDanishDate(layout, value string) (time.Time, error) {
	value = strings.Join(strings.Fields(value), " ")
	return time.ParseInLocation(layout, translateDanish(value), concert.Location)
}

// InferYear moves a date parsed without a year into the current year, or
// into next year when that would put it more than 60 days in the past.
func InferYear(t, now time.Time) time.Time {
	now = now.In(concert.Location)
	candidate := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, concert.Location)
	if candidate.Before(now.Add(-yearlessGrace)) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}

package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

// DefaultName is the calendar name shown by subscribing apps
const DefaultName = "Koncerter i Odense"

// defaultDuration is assumed for concerts with a start time; listings carry no end time.
const defaultDuration = 3 * time.Hour

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF
const maxLineOctets = 75

// GenerateICS generates one calendar with an event per concert.
// Concerts without a time of day become all-day events.
func GenerateICS(concerts []*concert.Concert, name string, now time.Time) string {
	var ics strings.Builder

	if name == "" {
		name = DefaultName
	}

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//odense-concerts//odense-concerts//DA")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	writeLine(&ics, "X-WR-TIMEZONE:"+concert.Location.String())

	stamp := formatICSTime(now)
	for _, c := range concerts {
		writeEvent(&ics, c, stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, c *concert.Concert, stamp string) {
	writeLine(ics, "BEGIN:VEVENT")

	// Stable across runs so subscribers update instead of duplicating.
	writeLine(ics, "UID:"+UID(c))
	writeLine(ics, "DTSTAMP:"+stamp)

	if c.HasTime() {
		writeLine(ics, "DTSTART:"+formatICSTime(c.Date))
		writeLine(ics, "DTEND:"+formatICSTime(c.Date.Add(defaultDuration)))
	} else {
		day := c.Date.In(concert.Location)
		writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(day))
		writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(day.AddDate(0, 0, 1)))
	}

	writeLine(ics, "SUMMARY:"+escapeICS(c.Title))
	writeLine(ics, "LOCATION:"+escapeICS(c.Venue))

	description := c.Desc
	if c.URL != "" {
		if description != "" {
			description += "\n\n"
		}
		description += c.URL
	}
	if description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}
	if c.URL != "" {
		writeLine(ics, "URL:"+c.URL)
	}

	if c.SoldOut {
		writeLine(ics, "CATEGORIES:UDSOLGT")
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// UID returns the calendar identifier of a concert
func UID(c *concert.Concert) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.ID())).String() + "@odense-concerts"
}

// writeLine writes one content line, folded at 75 octets without splitting a rune
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8RuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines start with a space, which counts toward the limit.
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar day of t
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Summary describes a feed for logging
func Summary(concerts []*concert.Concert) string {
	timed := 0
	for _, c := range concerts {
		if c.HasTime() {
			timed++
		}
	}
	return fmt.Sprintf("%d events (%d timed, %d all-day)", len(concerts), timed, len(concerts)-timed)
}

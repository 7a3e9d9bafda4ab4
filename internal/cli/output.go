package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/render"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// column widths of the text listing, in terminal cells
const (
	dateWidth  = 26
	venueWidth = 22
	titleWidth = 44
)

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Venue       string           `json:"venue,omitempty"`
	Concerts    []concert.Record `json:"concerts"`
	Count       int              `json:"count"`

	concerts []*concert.Concert
}

// newOutputResult wraps concerts for printing
func newOutputResult(now time.Time, venue string, concerts []*concert.Concert) *OutputResult {
	return &OutputResult{
		GeneratedAt: now.UTC(),
		Venue:       venue,
		Concerts:    concert.Dump(concerts),
		Count:       len(concerts),
		concerts:    concerts,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, f render.Format, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, f, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as aligned columns. Widths are measured in
// terminal cells so Danish letters and emoji in titles keep the layout.
func writeText(w io.Writer, result *OutputResult, f render.Format, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No concerts found.")
		return nil
	}

	for _, c := range result.concerts {
		when := f.Date(c.Date)
		if clock := f.Time(c.Date); clock != "" {
			when += " " + clock
		}

		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(runewidth.Truncate(when, dateWidth, "…"), dateWidth),
			runewidth.FillRight(runewidth.Truncate(c.Venue, venueWidth, "…"), venueWidth),
			runewidth.FillRight(runewidth.Truncate(c.Title, titleWidth, "…"), titleWidth),
			f.Price(c),
		)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", c.ID())
			fmt.Fprintf(w, "     URL: %s\n", c.URL)
			if c.Desc != "" {
				fmt.Fprintf(w, "     %s\n", runewidth.Truncate(c.Desc, dateWidth+venueWidth+titleWidth, "…"))
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d concerts\n", result.Count)
	return nil
}

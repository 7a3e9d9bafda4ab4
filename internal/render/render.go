package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/storage"
)

//go:embed templates/index.html
var templates embed.FS

// Renderer writes the concert page
type Renderer struct {
	format   Format
	tmpl     *template.Template
	calendar string
}

// month is one section of the page
type month struct {
	Title    string
	Concerts []*concert.Concert
}

type page struct {
	Lang     string
	Now      time.Time
	Calendar string
	Concerts []*concert.Concert
	Months   []month
}

// New creates a Renderer. calendar is the link to the iCalendar feed, or "".
func New(format Format, calendar string) (*Renderer, error) {
	funcs := template.FuncMap{
		"price":     format.Price,
		"date":      format.Date,
		"time":      format.Time,
		"isoDate":   format.ISODate,
		"generated": format.Generated,
		"search":    searchKey,
	}

	tmpl, err := template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	return &Renderer{
		format:   format,
		tmpl:     tmpl,
		calendar: calendar,
	}, nil
}

// Render writes the page for concerts, which must already be sorted
func (r *Renderer) Render(w io.Writer, now time.Time, concerts []*concert.Concert) error {
	data := page{
		Lang:     r.format.Language.String(),
		Now:      now,
		Calendar: r.calendar,
		Concerts: concerts,
		Months:   r.groupByMonth(concerts),
	}
	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// RenderFile renders the page and replaces path with it
func (r *Renderer) RenderFile(path string, now time.Time, concerts []*concert.Concert) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, now, concerts); err != nil {
		return err
	}
	if err := storage.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

// groupByMonth splits sorted concerts into consecutive month sections
func (r *Renderer) groupByMonth(concerts []*concert.Concert) []month {
	var months []month
	for _, c := range concerts {
		title := r.format.Month(c.Date)
		if len(months) == 0 || months[len(months)-1].Title != title {
			months = append(months, month{Title: title})
		}
		last := &months[len(months)-1]
		last.Concerts = append(last.Concerts, c)
	}
	return months
}

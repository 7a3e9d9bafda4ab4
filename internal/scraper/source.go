package scraper

import (
	"context"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

// Source fetches the current concert listings of one venue site
type Source interface {
	// Name is the short identifier used in logs, metrics and config.
	Name() string
	// Fetch returns the listings in site order.
	Fetch(ctx context.Context) ([]*concert.Concert, error)
}

// Options configures the sources built by All
type Options struct {
	// ExtraPath is the hand-maintained listings file read by the extra source.
	ExtraPath string
	// Now overrides the clock used for year inference and the extra cut-off.
	Now func() time.Time
}

// All returns every source in the fixed order the aggregator concatenates them
func All(f *Fetcher, opts Options) []Source {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	storms := NewStorms(f)
	storms.now = now
	vaerket := NewVaerket(f)
	vaerket.now = now
	extra := NewExtra(opts.ExtraPath)
	extra.now = now

	return []Source{
		storms,
		NewPosten(f),
		NewDexter(f),
		NewKulturmaskinen(f),
		NewLiveCulture(f),
		NewOdeon(f),
		NewGrandHotel(f),
		NewTCBUnderground(f),
		vaerket,
		NewStudenterhuset(f),
		extra,
	}
}

// Names lists the source names in aggregation order
func Names() []string {
	sources := All(NewFetcher(), Options{})
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names
}

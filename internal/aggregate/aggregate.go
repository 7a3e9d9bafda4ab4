package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/filter"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/pfrederiksen/odense-concerts/internal/metrics"
	"github.com/pfrederiksen/odense-concerts/internal/scraper"
)

// Options configures an Aggregator
type Options struct {
	// Blocklist drops concerts by title or venue after all sources ran.
	Blocklist *filter.Filter
	Metrics   *metrics.Recorder
	// FailFast aborts the run on the first failing source.
	FailFast bool
	Now      func() time.Time
}

// Result is the outcome of one aggregation
type Result struct {
	Concerts []*concert.Concert
	// Failed maps source names to the error that made them contribute nothing.
	Failed map[string]error
	// Counts maps source names to the number of concerts they returned.
	Counts map[string]int
}

// Aggregator collects concerts from a fixed list of sources
type Aggregator struct {
	sources []scraper.Source
	opts    Options
}

// New creates an Aggregator over sources, which are called in the given order
func New(sources []scraper.Source, opts Options) *Aggregator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Blocklist == nil {
		opts.Blocklist = filter.NewFilter()
	}
	return &Aggregator{
		sources: sources,
		opts:    opts,
	}
}

// All fetches every source and returns the merged, sorted list
func (a *Aggregator) All(ctx context.Context) (*Result, error) {
	result := &Result{
		Concerts: make([]*concert.Concert, 0),
		Failed:   make(map[string]error),
		Counts:   make(map[string]int),
	}

	for _, src := range a.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := src.Name()
		logger.Info("Fetching from "+name, logger.Fields{"source": name})

		start := time.Now()
		concerts, err := fetch(ctx, src)
		elapsed := time.Since(start)
		a.opts.Metrics.SourceDone(name, len(concerts), elapsed, err)

		if err != nil {
			logger.Error("Source failed", logger.Fields{
				"source":   name,
				"duration": elapsed.String(),
			}, err)
			if a.opts.FailFast {
				return nil, fmt.Errorf("source %s: %w", name, err)
			}
			result.Failed[name] = err
			continue
		}

		logger.Debug("Source done", logger.Fields{
			"source":   name,
			"count":    len(concerts),
			"duration": elapsed.String(),
		})
		result.Counts[name] = len(concerts)
		result.Concerts = append(result.Concerts, concerts...)
	}

	before := len(result.Concerts)
	result.Concerts = a.opts.Blocklist.Apply(result.Concerts)
	if dropped := before - len(result.Concerts); dropped > 0 {
		logger.Info("Applied block-list", logger.Fields{"dropped": dropped, "filter": a.opts.Blocklist.String()})
	}

	concert.Sort(result.Concerts)

	now := a.opts.Now()
	for _, c := range result.Concerts {
		if c.IsPast(now) {
			logger.Warn("Concert already happened", logger.Fields{
				"title": c.Title,
				"venue": c.Venue,
				"date":  concert.FormatDate(c.Date),
			})
		}
	}

	a.opts.Metrics.Concerts(len(result.Concerts))
	return result, nil
}

// fetch calls one source and turns a panic into an error
func fetch(ctx context.Context, src scraper.Source) (concerts []*concert.Concert, err error) {
	defer func() {
		if r := recover(); r != nil {
			concerts = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	concerts, err = src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return concerts, nil
}

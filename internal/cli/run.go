package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/aggregate"
	"github.com/pfrederiksen/odense-concerts/internal/calendar"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/config"
	"github.com/pfrederiksen/odense-concerts/internal/filter"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/pfrederiksen/odense-concerts/internal/metrics"
	"github.com/pfrederiksen/odense-concerts/internal/notifier"
	"github.com/pfrederiksen/odense-concerts/internal/render"
	"github.com/pfrederiksen/odense-concerts/internal/scraper"
	"github.com/pfrederiksen/odense-concerts/internal/storage"
	"github.com/pfrederiksen/odense-concerts/internal/thumbnail"
	"github.com/spf13/cobra"
)

var (
	flagAnnounce       bool
	flagDryRun         bool
	flagSkipThumbnails bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch all venues and build the site",
		Long: `Fetch the listings of every enabled venue, save the snapshot, then
write thumbnails, the HTML page, the calendar feed and optionally metrics.`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	cmd.Flags().BoolVar(&flagAnnounce, "announce", false, "Announce concerts that are new since the last snapshot")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print announcements instead of posting them")
	cmd.Flags().BoolVar(&flagSkipThumbnails, "skip-thumbnails", false, "Keep remote image URLs instead of making thumbnails")

	return cmd
}

// runRun is the main command logic
func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := render.NewFormat(cfg.Locale.Language, cfg.Locale.Currency, concert.Location)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}

	fetcher := scraper.NewFetcherWith(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)
	sources := enabledSources(cfg, scraper.All(fetcher, scraper.Options{ExtraPath: cfg.ExtraPath()}))

	r := &runner{
		cfg:            cfg,
		sources:        sources,
		format:         format,
		skipThumbnails: flagSkipThumbnails,
		now:            time.Now,
	}

	if flagAnnounce {
		if flagDryRun {
			r.notifier = notifier.NewDryRunNotifier(cmd.OutOrStdout(), format)
		} else {
			tw, err := notifier.NewTwitterNotifier(format, cfg.Announce.Max, cfg.Announce.Delay)
			if err != nil {
				return fmt.Errorf("initializing Twitter client: %w", err)
			}
			r.notifier = tw
		}
	}

	return r.run(cmd.Context())
}

// enabledSources drops the sources disabled in the config
func enabledSources(cfg *config.Config, all []scraper.Source) []scraper.Source {
	sources := make([]scraper.Source, 0, len(all))
	for _, src := range all {
		if !cfg.SourceEnabled(src.Name()) {
			logger.Info("Source disabled", logger.Fields{"source": src.Name()})
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

// blocklist builds the global filter from the config
func blocklist(cfg *config.Config) *filter.Filter {
	return &filter.Filter{
		ExcludeTitles: cfg.Blocklist.Titles,
		ExcludeVenues: cfg.Blocklist.Venues,
	}
}

// runner executes one full update of the site
type runner struct {
	cfg            *config.Config
	sources        []scraper.Source
	format         render.Format
	notifier       notifier.Notifier
	skipThumbnails bool
	now            func() time.Time
}

func (r *runner) run(ctx context.Context) error {
	now := r.now()
	rec := metrics.New()

	store, err := storage.New(r.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	agg := aggregate.New(r.sources, aggregate.Options{
		Blocklist: blocklist(r.cfg),
		Metrics:   rec,
		FailFast:  r.cfg.FailFast,
		Now:       r.now,
	})
	result, err := agg.All(ctx)
	if err != nil {
		return fmt.Errorf("fetching concerts: %w", err)
	}
	concerts := result.Concerts
	logger.Info("Fetched concerts", logger.Fields{
		"count":  len(concerts),
		"failed": len(result.Failed),
	})

	if r.notifier != nil {
		r.announce(ctx, store, concerts, now)
	}

	// The snapshot keeps the remote image URLs; thumbnailing rewrites them.
	if err := store.SaveConcerts(r.cfg.Snapshot, concerts); err != nil {
		return err
	}
	logger.Info("Saved snapshot", logger.Fields{"path": store.Path(r.cfg.Snapshot)})

	if !r.skipThumbnails {
		if err := r.thumbnails(ctx, rec, concerts); err != nil {
			return err
		}
	}

	renderer, err := render.New(r.format, r.cfg.Calendar)
	if err != nil {
		return err
	}
	if err := renderer.RenderFile(r.cfg.PagePath(), now, concerts); err != nil {
		return err
	}
	logger.Info("Wrote page", logger.Fields{"path": r.cfg.PagePath()})

	if path := r.cfg.CalendarPath(); path != "" {
		ics := calendar.GenerateICS(concerts, calendar.DefaultName, now)
		if err := storage.WriteFile(path, []byte(ics)); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		logger.Info("Wrote calendar", logger.Fields{"path": path, "summary": calendar.Summary(concerts)})
	}

	rec.RunFinished(r.now())
	if r.cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(r.cfg.MetricsFile); err != nil {
			return err
		}
	}

	return nil
}

// announce posts the concerts missing from the previous snapshot. Failures
// are logged; the site is still built.
func (r *runner) announce(ctx context.Context, store *storage.Store, concerts []*concert.Concert, now time.Time) {
	previous, err := store.LoadConcerts(r.cfg.Snapshot)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("No previous snapshot, nothing to announce", nil)
		return
	}
	if err != nil {
		logger.Error("Loading previous snapshot failed", nil, err)
		return
	}

	added := make([]*concert.Concert, 0)
	for _, c := range concert.Diff(previous, concerts) {
		if !c.IsPast(now) {
			added = append(added, c)
		}
	}
	if len(added) == 0 {
		logger.Info("No new concerts to announce", nil)
		return
	}

	logger.Info("Announcing new concerts", logger.Fields{"count": len(added)})
	if err := r.notifier.Notify(ctx, added); err != nil {
		logger.Error("Announcing failed", nil, err)
	}
}

func (r *runner) thumbnails(ctx context.Context, rec *metrics.Recorder, concerts []*concert.Concert) error {
	gen, err := thumbnail.New(thumbnail.Options{
		Dir:       r.cfg.ThumbnailDir(),
		URLPrefix: r.cfg.Thumbnails.URLPrefix,
		Size:      r.cfg.Thumbnails.Size,
		MinWidth:  r.cfg.Thumbnails.MinWidth,
		Quality:   r.cfg.Thumbnails.Quality,
		Workers:   r.cfg.Thumbnails.Workers,
		Timeout:   r.cfg.Thumbnails.Timeout,
		UserAgent: r.cfg.HTTP.UserAgent,
		Metrics:   rec,
	})
	if err != nil {
		return err
	}
	if _, err := gen.MakeAll(ctx, concerts); err != nil {
		return fmt.Errorf("making thumbnails: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/render"
	"github.com/pfrederiksen/odense-concerts/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagFormat   string
	flagVenue    string
	flagSort     string
	flagShowPast bool
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the saved concert snapshot",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagVenue, "venue", "", "Only show concerts at this venue")
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Sort order: date, venue or title")
	cmd.Flags().BoolVar(&flagShowPast, "show-past", false, "Include concerts whose day has passed")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	order, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := render.NewFormat(cfg.Locale.Language, cfg.Locale.Currency, concert.Location)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	concerts, err := store.LoadConcerts(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	now := time.Now()
	concerts = selectConcerts(concerts, flagVenue, flagShowPast, now)
	sortConcerts(concerts, order)

	result := newOutputResult(now, flagVenue, concerts)
	if err := WriteOutput(cmd.OutOrStdout(), result, format, f, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// selectConcerts keeps concerts at venue (any venue when empty) and, unless
// showPast is set, only those whose day has not passed
func selectConcerts(concerts []*concert.Concert, venue string, showPast bool, now time.Time) []*concert.Concert {
	selected := make([]*concert.Concert, 0, len(concerts))
	for _, c := range concerts {
		if venue != "" && !strings.EqualFold(c.Venue, venue) {
			continue
		}
		if !showPast && c.IsPast(now) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}

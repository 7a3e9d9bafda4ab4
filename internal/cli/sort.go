package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
	SortByTitle SortOrder = "title"
)

// parseSortOrder validates a --sort value
func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByDate, SortByVenue, SortByTitle:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'venue' or 'title')", s)
}

// sortConcerts sorts a slice of concerts based on the specified sort order
func sortConcerts(concerts []*concert.Concert, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		concert.Sort(concerts)
	case SortByVenue:
		sort.SliceStable(concerts, func(i, j int) bool {
			vi, vj := strings.ToLower(concerts[i].Venue), strings.ToLower(concerts[j].Venue)
			if vi != vj {
				return vi < vj
			}
			// If venues are equal, sort by date
			return concert.Less(concerts[i], concerts[j])
		})
	case SortByTitle:
		sort.SliceStable(concerts, func(i, j int) bool {
			ti, tj := strings.ToLower(concerts[i].Title), strings.ToLower(concerts[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return concert.Less(concerts[i], concerts[j])
		})
	}
}

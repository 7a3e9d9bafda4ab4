package concert

import "sort"

// Less orders concerts by date, then venue, then title
func Less(a, b *Concert) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Venue != b.Venue {
		return a.Venue < b.Venue
	}
	return a.Title < b.Title
}

// Sort sorts concerts chronologically in place. Concerts sharing a date are
// ordered by venue and title so the result does not depend on source order.
func Sort(concerts []*Concert) {
	sort.SliceStable(concerts, func(i, j int) bool {
		return Less(concerts[i], concerts[j])
	})
}

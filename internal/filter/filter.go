// Package filter provides the per-source listing filters and the global block-list.
//
// Venue sites list more than concerts, and some concerts appear on two sites.
// Each source declares a Filter instead of scattering conditionals through its
// parsing code:
//   - RequireTitle: the title must contain one of these words (allow-list)
//   - ExcludeTitles: titles containing any of these are dropped
//   - ExcludeExactTitles: titles equal to one of these are dropped
//   - ExcludeVenues: listings at these venues are dropped, typically because
//     another source already reports them
//   - ExcludeTags: listings carrying any of these tags are dropped
//   - Categories: when set, the listing category must be one of these
//
// All comparisons are case-insensitive.
//
// Example usage:
//
//	f := &filter.Filter{
//	    ExcludeExactTitles: []string{"Gavekort"},
//	    ExcludeVenues:      []string{"Magasinet", "ODEON"},
//	    ExcludeTags:        []string{"Comedy"},
//	}
//	if !f.Matches(filter.Candidate{Title: title, Venue: venue, Tags: tags}) {
//	    continue
//	}
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

// Filter represents listing filtering criteria
type Filter struct {
	RequireTitle       []string `yaml:"require_title,omitempty"`
	ExcludeTitles      []string `yaml:"exclude_titles,omitempty"`
	ExcludeExactTitles []string `yaml:"exclude_exact_titles,omitempty"`
	ExcludeVenues      []string `yaml:"exclude_venues,omitempty"`
	ExcludeTags        []string `yaml:"exclude_tags,omitempty"`
	Categories         []string `yaml:"categories,omitempty"`
}

// Candidate is what a source knows about a listing when deciding whether to keep it.
type Candidate struct {
	Title    string
	Venue    string
	Category string
	Tags     []string
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all listings until criteria are added.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.RequireTitle) == 0 &&
		len(f.ExcludeTitles) == 0 &&
		len(f.ExcludeExactTitles) == 0 &&
		len(f.ExcludeVenues) == 0 &&
		len(f.ExcludeTags) == 0 &&
		len(f.Categories) == 0
}

// Matches checks if a listing passes all active criteria.
// An empty filter matches everything.
func (f *Filter) Matches(c Candidate) bool {
	if f.IsEmpty() {
		return true
	}

	titleLower := strings.ToLower(c.Title)

	if len(f.RequireTitle) > 0 && !containsAny(titleLower, f.RequireTitle) {
		return false
	}

	if containsAny(titleLower, f.ExcludeTitles) {
		return false
	}

	if equalsAny(strings.TrimSpace(c.Title), f.ExcludeExactTitles) {
		return false
	}

	if equalsAny(c.Venue, f.ExcludeVenues) {
		return false
	}

	for _, tag := range c.Tags {
		if equalsAny(strings.TrimSpace(tag), f.ExcludeTags) {
			return false
		}
	}

	if len(f.Categories) > 0 && !equalsAny(c.Category, f.Categories) {
		return false
	}

	return true
}

// Apply returns the concerts whose title and venue pass the filter.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(concerts []*concert.Concert) []*concert.Concert {
	if f.IsEmpty() {
		return concerts
	}

	filtered := make([]*concert.Concert, 0, len(concerts))
	for _, c := range concerts {
		if f.Matches(Candidate{Title: c.Title, Venue: c.Venue}) {
			filtered = append(filtered, c)
		}
	}

	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "Require title: koncert | Exclude venues: Magasinet, ODEON"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.RequireTitle) > 0 {
		parts = append(parts, fmt.Sprintf("Require title: %s", strings.Join(f.RequireTitle, ", ")))
	}
	if len(f.ExcludeTitles) > 0 {
		parts = append(parts, fmt.Sprintf("Exclude titles: %s", strings.Join(f.ExcludeTitles, ", ")))
	}
	if len(f.ExcludeExactTitles) > 0 {
		parts = append(parts, fmt.Sprintf("Exclude exact titles: %s", strings.Join(f.ExcludeExactTitles, ", ")))
	}
	if len(f.ExcludeVenues) > 0 {
		parts = append(parts, fmt.Sprintf("Exclude venues: %s", strings.Join(f.ExcludeVenues, ", ")))
	}
	if len(f.ExcludeTags) > 0 {
		parts = append(parts, fmt.Sprintf("Exclude tags: %s", strings.Join(f.ExcludeTags, ", ")))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}

	return strings.Join(parts, " | ")
}

// containsAny reports whether lower contains any of the words, ignoring case
func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func equalsAny(s string, values []string) bool {
	for _, v := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

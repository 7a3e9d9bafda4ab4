// Package render writes the static HTML page listing the concerts.
//
// The page is a single html/template embedded in the binary. Dates, times and
// prices are formatted for Danish readers. Two small scripts run in the
// browser: one hides concerts whose day has passed, so a page generated days
// ago still looks current, and one filters the list as the visitor types.
package render

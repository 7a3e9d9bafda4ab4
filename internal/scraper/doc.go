// Package scraper provides HTTP fetching and parsing for the Odense venue sources.
//
// Every venue has its own Source that fetches one or more pages (server
// rendered HTML, a WordPress AJAX endpoint, or a JSON API) and turns the
// listings into concert records. The sources share a Fetcher that sets the
// User-Agent, rate limits requests and decodes legacy charsets, plus helpers
// for the Danish price labels, responsive image candidate sets and Danish
// date formats the sites use.
//
// Sources are independent: each one only depends on the shape of its own
// site, so a redesign of one venue page breaks exactly one Source.
package scraper

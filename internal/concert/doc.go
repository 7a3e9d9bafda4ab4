// Package concert provides the common record shape all venue sources normalize into.
//
// The concert package handles the JSON list format shared by the saved snapshot
// and the manually curated extra list, the chronological sort used by the
// aggregator, and snapshot diffing to find concerts that were not present in
// the previous run. Each concert has a deterministic SHA1-based ID generated
// from its venue, title and date.
package concert

// Package cli implements the command-line interface for odense-concerts.
//
// The cli package provides the Cobra-based CLI: `run` fetches every venue,
// saves the snapshot and builds the site (thumbnails, page, calendar feed);
// `list` prints the saved snapshot as text or JSON; `sources` lists the
// venue sources; `serve` previews the generated site locally.
package cli

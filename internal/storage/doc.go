// Package storage provides JSON-based persistence for concert snapshots.
//
// A snapshot is the sorted concert list written by the last run
// (concerts.json by default). It is read back to find newly announced
// concerts and to serve the list command without scraping. The package also
// reads the hand-maintained extra.json file and writes generated files
// atomically, so a crashed run never leaves a half-written page behind.
package storage

// Package notifier announces newly listed concerts.
//
// New concerts are found by diffing the fresh list against the previous
// snapshot. The Twitter notifier posts one tweet per concert with a pause
// between posts; the dry-run notifier prints the same text instead, which
// is what `run --announce --dry-run` uses.
package notifier

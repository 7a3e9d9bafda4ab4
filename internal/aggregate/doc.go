// Package aggregate runs every source and merges the results into one sorted
// concert list.
//
// Sources are called one after another in their fixed order. A source that
// fails, or panics, contributes no concerts and is reported in Result.Failed;
// the remaining sources still run unless FailFast is set.
package aggregate

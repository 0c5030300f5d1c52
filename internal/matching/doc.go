// Package matching scores archive candidates against search hints and runs
// the cascading archive search that picks the best one.
//
// Scorer sums three independent signals (title, year, director) with
// configurable weights. Selector issues an ordered list of lazily built
// queries, stops at the first strategy that yields results, deduplicates the
// pool and returns the arg-max together with the reason for any miss.
package matching

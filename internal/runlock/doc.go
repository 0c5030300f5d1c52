// Package runlock keeps backfill runs exclusive.
//
// A Guard combines an in-process compare-and-set flag with an advisory file
// lock, so neither a second goroutine nor a second process can start a run
// against the same catalog while one is in flight.
package runlock

// Package preflight provides readiness checks for the catalog, the local
// directories and the two upstream services cinefill depends on.
//
// The CLI "cinefill check" command runs RunAll and prints one line per
// check. Backfills do not call it; upstream failures during a run degrade
// per record instead.
package preflight

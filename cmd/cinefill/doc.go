// Package main implements the cinefill command-line interface.
//
// The CLI loads configuration lazily, opens the local catalog and runs the
// genre, metadata and poster backfills against the film registry and the
// film archive. Each run prints a report table or, with --json, the report
// itself, and can write a JSON copy of the report to disk.
package main

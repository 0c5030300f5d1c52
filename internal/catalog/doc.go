// Package catalog persists local movie records and their genre rows in
// SQLite.
//
// The Store owns schema initialization and exposes the narrow set of reads
// and writes the backfill services need: listing records that carry a
// registry id, listing records with missing metadata, single-record
// read/update, and per-record genre replacement inside one transaction.
//
// Registry ids are unique when present. Schema changes bump the version in
// schema.go; older databases are rejected with ErrSchemaMismatch.
package catalog

// Package backfill runs the batch reconciliation passes over the catalog.
//
// GenreService replaces genre rows from registry genre labels.
// MetadataService fills blank poster, backdrop and overview fields from the
// archive. PosterAuditService targets records without a poster and reports a
// finer outcome breakdown, optionally per record.
//
// Every pass processes records sequentially and isolates failures per
// record: a panic or error while handling one record is logged with its
// identity and counted as failed, and the batch continues. Dry runs share
// the full read and decision path and skip only the writes. Each run builds
// a fresh report tagged with a run id.
package backfill

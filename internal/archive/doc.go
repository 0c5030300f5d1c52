// Package archive provides the free-text search client for the film archive.
//
// Responses carry search-hit placeholders, HTML-like tags and pipe-delimited
// multi-value fields; candidates are sanitized during decoding so callers see
// plain values. Requests are throttled with a token bucket and every failure
// mode degrades to an empty result.
package archive

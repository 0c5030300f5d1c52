// Package registry provides the exact-id lookup client for the national film
// registry.
//
// The registry is authoritative but sparse: it returns titles, dates,
// runtime, people, nations, audit grades and raw genre labels for a registry
// id, and never image paths. Lookup never fails loudly; transport errors,
// non-200 statuses, provider fault payloads and malformed bodies all surface
// as an absent result with a warning log so a batch can keep going.
package registry

// Package notifications publishes backfill run summaries.
//
// The default implementation posts to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Callers depend
// only on the Service interface.
package notifications

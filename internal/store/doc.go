// Package store defines the persistence capabilities the catalog services depend on.
// Each entity gets a small interface pairing filtered list and count queries with
// point lookups and existence probes, so the services never see a query language.
// Adapters live under internal/platform (postgres for production, memory for tests
// and local runs).
package store

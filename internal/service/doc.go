// Package service contains the application-specific use cases of the catalog.
// It orchestrates the store interfaces defined in internal/store to fulfill
// features exposed by the API.
//
// Key components:
//
//   - IdentityService resolves, probes and creates user accounts.
//   - CatalogService serves items, favorites, lots, dependencies and price history.
//     It checks that referenced users and items exist before touching the store
//     and assembles paginated results from paired count and list queries.
//
// Services hold no mutable state beyond their injected dependencies and never
// retry failed store calls. Every returned error wraps one of the sentinels in
// internal/domain so the API layer can classify it with errors.Is.
package service

// Package store is a thin persistence layer over named collections:
// a collection is read fully into memory, mutated, and written back
// fully. The whole-collection contract matches what the seeding and
// provisioning tools expect; per-collection locking makes concurrent
// load-modify-save cycles within one process safe.
package store

import "context"

// Collection names used across the application.
const (
	CollectionUsers    = "users"
	CollectionProducts = "products"
	CollectionOrders   = "orders"
)

// Store reads and writes whole named collections.
//
// Load decodes the full contents of a collection into out, which must be a
// pointer to a slice. In non-strict mode a missing or unreadable collection
// is downgraded to an empty slice with a logged warning; in strict mode the
// failure is returned.
//
// Save serializes records (a slice) and replaces the collection's previous
// contents entirely. Save failures are always returned to the caller.
type Store interface {
	Load(ctx context.Context, collection string, out interface{}) error
	Save(ctx context.Context, collection string, records interface{}) error
}

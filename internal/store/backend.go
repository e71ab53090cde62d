// Package store owns the persistent document: its seed content, load/save,
// structural validation, the administrator invariant, and the rolling
// snapshot history. Persistence is a small key/value contract with Redis and
// Postgres implementations.
package store

import "context"

// Storage keys. The layout mirrors the original local-storage namespaces:
// one key for the live document, one for the bounded snapshot list, one for
// the locally persisted session user.
const (
	KeyDatabase  = "fnpe:db:v1"
	KeySnapshots = "fnpe:db:snapshots:v1"
	KeySession   = "fnpe:session:v1"
)

// Backend is the durable key/value storage behind the document store.
type Backend interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}

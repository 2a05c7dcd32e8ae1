// Package cache provides the optional lookup cache used to avoid repeated
// upstream calls for the same key within and across pipeline runs.
package cache

import "context"

// Store is a minimal byte-payload cache keyed by strings.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the payload under key, replacing any previous value.
	Set(ctx context.Context, key string, payload []byte) error

	// Close releases any underlying resources.
	Close(ctx context.Context) error
}

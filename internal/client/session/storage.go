package session

import "context"

// Storage persists the bearer token between runs and across client instances.
type Storage interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	// Save replaces the stored token.
	Save(token string) error
	// Clear removes the stored token. Clearing an empty storage is not an error.
	Clear() error
	// Watch reports changes made to the storage. The channel is closed when ctx is done.
	// Implementations may also report this instance's own writes.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

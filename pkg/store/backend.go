package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when no value is stored under a key.
var ErrNotFound = errors.New("store: key not found")

// ErrWatchUnsupported is returned by Watch when the backend cannot observe
// writes from other processes.
var ErrWatchUnsupported = errors.New("store: backend does not support watch")

// Backend stores opaque JSON blobs by key. Keys are slash separated, e.g.
// "tasks" or "dayPlans/2025-03-03".
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	// Keys lists stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Watcher is implemented by backends that can report writes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event is emitted by Watch when a stored key changes. An empty Key means
// the change could not be attributed and everything should be reloaded.
type Event struct {
	Key string
}

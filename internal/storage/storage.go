// Package storage defines the key/value persistence boundary.
// The task store never talks to a concrete database; backends implement KV.
package storage

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when a backend lacks an optional capability.
var ErrUnsupported = errors.New("not supported by backend")

// KV is an opaque string-keyed blob store.
type KV interface {
	// Get returns the value stored under key.
	// ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Watcher is implemented by backends that can report external changes.
type Watcher interface {
	// Watch calls onChange after key is modified outside this process.
	// Blocks until ctx is done; returns nil on cancellation.
	Watch(ctx context.Context, key string, onChange func()) error
}

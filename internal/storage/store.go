// Package storage persists run batches as immutable JSON documents in an
// object store, one object per run keyed by the run timestamp.
package storage

import (
	"context"
	"fmt"
)

// ObjectStore is the durable store batches are written to and read from.
type ObjectStore interface {
	// Put durably stores data at key. The write is all-or-nothing: a key
	// must never become visible with partial content.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// PersistenceError means a batch write could not be confirmed. It is fatal
// for the run: no batch is considered to exist.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for a key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a flat durable key-value namespace shared by all entity types.
// There are no transactions across keys; callers must assume multi-key
// operations can be observed partially completed.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys starting with prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

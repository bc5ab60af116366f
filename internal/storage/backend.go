// Package storage provides the object stores filety reads inbox files from
// and writes backups and processed tables to.
//
// Keys are slash-separated relative paths. Every backend treats a missing
// object on Read as ErrNotFound and a missing object on Delete as success.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Backend is an object store.
type Backend interface {
	// Write stores data at key, replacing any existing object.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the object at key.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns the keys of all objects under prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases resources held by the backend.
	Close() error

	// Type returns the backend identifier: "local", "azure" or "s3".
	Type() string
}

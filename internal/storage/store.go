// Package storage is the durable key-value port behind the session store and
// the expiring cache. It plays the role browser local storage plays for a web
// front-end: small values, string keys, no TTL of its own.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the key is absent
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat string-keyed byte store
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix. An empty prefix lists all keys.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Pinger is implemented by backends that can check their connection
type Pinger interface {
	Ping(ctx context.Context) error
}

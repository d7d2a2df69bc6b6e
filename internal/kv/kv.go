// Package kv provides the key-value stores the holiday cache persists into.
package kv

import "errors"

// ErrNotFound is returned by Get when a key has no value
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat string-keyed byte store
type Store interface {
	// Get returns the value stored under key or ErrNotFound
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	// Keys lists the stored keys in no particular order
	Keys() ([]string, error)
	Close() error
}

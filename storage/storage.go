// Package storage declares the key/value contract an external archive layer
// implements to persist exported designs.
package storage

import (
	"errors"

	"github.com/ipld/go-ipld-prime/storage"
)

// ErrNotFound is returned when a key is not present in the storage.
var ErrNotFound = errors.New("key not found")

// Storage is the read/write contract of an archive backend.
type Storage interface {
	storage.ReadableStorage
	storage.WritableStorage
}

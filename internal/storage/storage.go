// Package storage persists opaque values under string keys
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get for a key that was never written
var ErrNotFound = errors.New("key not found")

// Backend is a small key/value medium. Put writes all entries or none.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries map[string][]byte) error
	Close() error
}

// Kind names a backend implementation
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
)

// Open creates a backend of the given kind rooted at dir
func Open(kind Kind, dir string) (Backend, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindSQLite, "":
		return OpenSQLite(filepath.Join(dir, "tasks.db"))
	case KindFile:
		return OpenFile(filepath.Join(dir, "tasks.json"))
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

package storage

import "context"

// FileStore is the filesystem-like contract that transcript and index
// persistence is written against. Paths are slash-separated and relative
// to the store's root.
type FileStore interface {
	// List returns the names of the entries directly under dir, in the
	// backend's enumeration order.
	List(ctx context.Context, dir string) ([]string, error)
	Read(ctx context.Context, path string) ([]byte, error)
	// Write creates or replaces the file at path. Callers that need
	// append-only behavior derive a fresh path per write.
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}

// Package storage abstracts the durable byte store that holds uploaded and
// generated images. Keys are slash-separated paths like
// "historial/abc_result_0f3a.jpg"; the disk store roots them under the
// configured storage directory, the S3 store uses them as object keys.
package storage

import "context"

// Store is a byte-addressable file store with path-based write and delete.
type Store interface {
	// Save writes data under key, creating intermediate directories or
	// prefixes as needed.
	Save(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the object at key. Deleting a missing key is an error
	// the caller may choose to ignore.
	Delete(ctx context.Context, key string) error
	// URL returns an address a client can fetch the object from.
	URL(ctx context.Context, key string) string
}

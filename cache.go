package dq

import "context"

// Cache stores typed JSON values and raw page bodies under slash-separated
// keys relative to a cache root.
//
// Writes are atomic: a reader of a key observes either the previous
// complete value or the new complete value, never a partial file.
type Cache interface {
	// Exists reports whether a value is stored under key.
	Exists(key string) bool

	// Read decodes the JSON value stored under key into v.
	// Returns ENOTFOUND if the key is absent and EPARSE if the stored bytes
	// do not decode into v.
	Read(ctx context.Context, key string, v any) error

	// ReadRaw returns the bytes stored under key, such as a page body.
	// Returns ENOTFOUND if the key is absent.
	ReadRaw(ctx context.Context, key string) ([]byte, error)

	// Write encodes v as indented JSON and stores it under key,
	// creating parent directories as needed.
	Write(ctx context.Context, key string, v any) error

	// WriteRaw stores data under key verbatim.
	WriteRaw(ctx context.Context, key string, data []byte) error

	// Path returns the filesystem path of key.
	Path(key string) string
}

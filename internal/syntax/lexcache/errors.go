package lexcache

import "errors"

// Errors returned by the cache.
var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("lexcache: cache closed")

	// ErrLengthMismatch indicates a transaction whose changes do not account
	// for the difference between the old and new documents. The cache
	// recovers by invalidating everything.
	ErrLengthMismatch = errors.New("lexcache: changes do not match the new document")
)

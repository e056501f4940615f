package stream

import "errors"

// Errors returned by parsers.
var (
	// ErrNoProgress indicates a tokenizer returned repeatedly without
	// consuming any input.
	ErrNoProgress = errors.New("tokenizer failed to advance the stream")

	// ErrTokenizerPanic indicates a tokenizer panicked.
	ErrTokenizerPanic = errors.New("tokenizer panicked")
)

package search

import "errors"

var (
	// ErrSourceRequired is returned when an entry source is not provided.
	ErrSourceRequired = errors.New("entry source required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

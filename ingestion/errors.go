package ingestion

import "errors"

var (
	// ErrParserRequired is returned when a parser is not provided.
	ErrParserRequired = errors.New("parser required")

	// ErrSplitterRequired is returned when a splitter is not provided.
	ErrSplitterRequired = errors.New("splitter required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")
)

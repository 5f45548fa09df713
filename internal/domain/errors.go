package domain

import "errors"

// Pipeline errors - used across all layers. Callers match with errors.Is.
var (
	// ErrInvalidConfig indicates missing or malformed configuration,
	// including chunk_overlap >= chunk_size.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoDocuments indicates the data directory has no eligible .txt files.
	ErrNoDocuments = errors.New("no documents found")

	// ErrModel indicates the embedding or QA model is unavailable or failed.
	ErrModel = errors.New("model failure")

	// ErrNotBuilt indicates search or answering was attempted before any
	// knowledge base was built or loaded.
	ErrNotBuilt = errors.New("knowledge base not built")

	// ErrPersistence indicates the index or metadata files are missing or
	// corrupt on load.
	ErrPersistence = errors.New("persistence failure")
)

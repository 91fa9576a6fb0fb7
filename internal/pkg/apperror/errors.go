package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the main failure categories. Handlers map them to HTTP
// status codes; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound: referenced resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAccessDenied: the requesting user may not view or edit the resource
	ErrAccessDenied = errors.New("access denied")

	// ErrVectorStore: persistence or query failure in the embedding cache.
	// Swallowed on the write path, propagated on diagnostic reads.
	ErrVectorStore = errors.New("vector store failure")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func AccessDenied(what string) error {
	return fmt.Errorf("%s: %w", what, ErrAccessDenied)
}

func VectorStore(err error) error {
	return fmt.Errorf("%w: %v", ErrVectorStore, err)
}

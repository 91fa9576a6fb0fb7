package embedding

import (
	"context"
	"fmt"
)

// Provider defines the interface for generating text embeddings
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// ProviderError wraps failures from the upstream embedding provider.
// StatusCode is 0 for transport-level failures (timeout, connection refused).
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("embedding provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("embedding provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

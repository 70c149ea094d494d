// Package upstream talks to the chat-completion provider behind the relay.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/a-h/glamcare/models"
)

// Upstream starts a streaming completion and returns the SSE body.
type Upstream interface {
	Stream(ctx context.Context, msgs []models.ChatMessage) (io.ReadCloser, error)
}

// Config is built once at startup and never changes afterwards.
type Config struct {
	// URL of the chat-completion endpoint.
	URL string
	// APIKey is sent as a bearer token.
	APIKey string
	Model  string
}

var ErrMissingAPIKey = errors.New("upstream: API key is not configured")

// StatusError is returned when the provider responds with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: unexpected status %d", e.Status)
}

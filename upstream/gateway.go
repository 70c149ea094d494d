package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/glamcare/models"
	"github.com/a-h/jsonapi"
)

func NewGateway(cfg Config) *Gateway {
	return &Gateway{
		cfg: cfg,
	}
}

// Gateway calls an OpenAI compatible endpoint and hands back the raw
// event-stream body without parsing it.
type Gateway struct {
	cfg Config
}

func (g *Gateway) Stream(ctx context.Context, msgs []models.ChatMessage) (body io.ReadCloser, err error) {
	if g.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	buf, err := json.Marshal(models.CompletionRequest{
		Model:    g.cfg.Model,
		Messages: msgs,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	res, err := jsonapi.Raw(httpReq, jsonapi.WithRequestHeader("Authorization", "Bearer "+g.cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		b, _ := io.ReadAll(res.Body)
		return nil, &StatusError{
			Status: res.StatusCode,
			Body:   string(b),
		}
	}
	return res.Body, nil
}

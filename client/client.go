package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/glamcare/models"
	"github.com/a-h/glamcare/sse"
	"github.com/a-h/jsonapi"
)

// ReadBufferSize is the maximum number of bytes read from the stream at once.
const ReadBufferSize = 1024

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) authorization() string {
	if c.apiKey == "" {
		return ""
	}
	return "Bearer " + c.apiKey
}

func (c Client) AnalysisPost(ctx context.Context, req models.AnalysisPostRequest) (resp models.AnalysisPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("skin-analysis").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.AnalysisPostRequest, models.AnalysisPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.authorization()))
}

// ChatPost sends the conversation to the relay and calls f with each text
// delta of the reply, in order.
func (c Client) ChatPost(ctx context.Context, request models.ChatPostRequest, f func(ctx context.Context, delta string) error) (err error) {
	url, err := jsonapi.URL(c.baseURL).Path("skincare-chat").String()
	if err != nil {
		return err
	}
	return c.postStream(ctx, url, request, f)
}

func (c Client) postStream(ctx context.Context, url string, req any, f func(ctx context.Context, delta string) error) (err error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	res, err := jsonapi.Raw(httpReq, jsonapi.WithRequestHeader("Authorization", c.authorization()))
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		var er models.ErrorResponse
		_ = json.Unmarshal(body, &er)
		return &StatusError{
			Status:  res.StatusCode,
			Message: er.Error,
		}
	}
	return sse.Decode(res.Body, ReadBufferSize, func(delta string) error {
		if err := f(ctx, delta); err != nil {
			return fmt.Errorf("failed to process chunk: %w", err)
		}
		return nil
	})
}

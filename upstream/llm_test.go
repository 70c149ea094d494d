package upstream

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/glamcare/models"
	"github.com/google/go-cmp/cmp"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	chunks   []string
	err      error
	received []llms.MessageContent
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.received = msgs
	if m.err != nil {
		return nil, m.err
	}
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	for _, chunk := range m.chunks {
		if opts.StreamingFunc == nil {
			continue
		}
		if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
			return nil, err
		}
	}
	return &llms.ContentResponse{}, nil
}

func TestLLM(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleSystem, Content: "persona"},
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
	}

	t.Run("chunks are encoded as gateway frames", func(t *testing.T) {
		m := &fakeModel{chunks: []string{"Hel", "lo \"there\""}}
		body, err := NewLLM(m).Stream(context.Background(), msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer body.Close()
		b, err := io.ReadAll(body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		expected := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"lo \\\"there\\\"\"}}]}\n\n" +
			"data: [DONE]\n\n"
		if diff := cmp.Diff(expected, string(b)); diff != "" {
			t.Error(diff)
		}
		expectedContent := []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, "persona"),
			llms.TextParts(llms.ChatMessageTypeHuman, "hello"),
			llms.TextParts(llms.ChatMessageTypeAI, "hi"),
		}
		if diff := cmp.Diff(expectedContent, m.received); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("errors before the first chunk are returned", func(t *testing.T) {
		m := &fakeModel{err: errors.New("connection refused")}
		_, err := NewLLM(m).Stream(context.Background(), msgs)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("unknown roles are rejected", func(t *testing.T) {
		m := &fakeModel{}
		_, err := NewLLM(m).Stream(context.Background(), []models.ChatMessage{{Role: "narrator", Content: "x"}})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

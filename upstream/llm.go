package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/glamcare/models"
	"github.com/tmc/langchaingo/llms"
)

func NewLLM(model llms.Model) *LLM {
	return &LLM{
		model: model,
	}
}

// LLM streams from a langchaingo model, e.g. a local Ollama server, and
// encodes the output in the same frame format as the gateway.
type LLM struct {
	model llms.Model
}

var roleToMessageType = map[models.Role]llms.ChatMessageType{
	models.RoleSystem:    llms.ChatMessageTypeSystem,
	models.RoleUser:      llms.ChatMessageTypeHuman,
	models.RoleAssistant: llms.ChatMessageTypeAI,
}

func (l *LLM) Stream(ctx context.Context, msgs []models.ChatMessage) (io.ReadCloser, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		mt, ok := roleToMessageType[m.Role]
		if !ok {
			return nil, fmt.Errorf("upstream: unknown role %q", m.Role)
		}
		content = append(content, llms.TextParts(mt, m.Content))
	}

	pr, pw := io.Pipe()

	// Errors raised before the first chunk are returned from Stream so that
	// the relay can still answer with an error status.
	started := make(chan error, 1)
	var once sync.Once
	start := func(err error) {
		once.Do(func() { started <- err })
	}

	go func() {
		f := func(ctx context.Context, chunk []byte) error {
			start(nil)
			return writeFrame(pw, string(chunk))
		}
		_, err := l.model.GenerateContent(ctx, content, llms.WithStreamingFunc(f))
		if err != nil {
			start(err)
			pw.CloseWithError(err)
			return
		}
		start(nil)
		_, err = io.WriteString(pw, "data: [DONE]\n\n")
		pw.CloseWithError(err)
	}()

	if err := <-started; err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return pr, nil
}

func writeFrame(w io.Writer, text string) error {
	payload, err := json.Marshal(models.CompletionChunk{
		Choices: []models.CompletionChoice{
			{Delta: models.CompletionDelta{Content: &text}},
		},
	})
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, "data: "); err != nil {
		return err
	}
	if _, err = w.Write(payload); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n\n")
	return err
}

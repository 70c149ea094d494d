package models

// CompletionRequest is sent to the upstream chat-completion gateway.
type CompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// CompletionChunk is the JSON payload of a single upstream SSE frame.
type CompletionChunk struct {
	Choices []CompletionChoice `json:"choices"`
}

type CompletionChoice struct {
	Delta CompletionDelta `json:"delta"`
}

type CompletionDelta struct {
	// Content is nil when the frame carries no text, e.g. a role-only delta.
	Content *string `json:"content,omitempty"`
}

// Text returns the delta text of the first choice.
func (c CompletionChunk) Text() (text string, ok bool) {
	if len(c.Choices) == 0 || c.Choices[0].Delta.Content == nil {
		return "", false
	}
	return *c.Choices[0].Delta.Content, true
}

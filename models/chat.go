package models

// ChatPostRequest is the body of POST /skincare-chat.
type ChatPostRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ErrorResponse is the envelope returned for every relay failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

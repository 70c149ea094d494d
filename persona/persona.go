// Package persona holds the system prompt the relay prepends to every
// conversation.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/a-h/glamcare/models"
)

//go:embed persona.md
var Prompt string

// Load returns the prompt in filename, or the built-in Prompt when filename
// is empty.
func Load(filename string) (string, error) {
	if filename == "" {
		return Prompt, nil
	}
	contents, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read persona file %s: %w", filename, err)
	}
	if strings.TrimSpace(string(contents)) == "" {
		return "", fmt.Errorf("persona file %s is empty", filename)
	}
	return string(contents), nil
}

// Apply returns a new slice with the system prompt in front of msgs.
func Apply(prompt string, msgs []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(msgs)+1)
	out = append(out, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: prompt,
	})
	return append(out, msgs...)
}

package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/glamcare/models"
	"github.com/google/go-cmp/cmp"
)

func TestPrompt(t *testing.T) {
	// The section order is a content contract with the upstream model.
	sections := []string{
		"Understanding the Concern",
		"Possible Causes",
		"Natural Remedies",
		"Diet & Lifestyle",
		"Product Support",
		"When to See a Dermatologist",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(Prompt, s)
		if idx < 0 {
			t.Fatalf("prompt is missing section %q", s)
		}
		if idx < last {
			t.Errorf("section %q is out of order", s)
		}
		last = idx
	}
	for _, rule := range []string{"skin tone", "medical diagnosis", "BEFORE suggesting any product"} {
		if !strings.Contains(Prompt, rule) {
			t.Errorf("prompt is missing rule %q", rule)
		}
	}
}

func TestApply(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleUser, Content: "My skin is dry."},
		{Role: models.RoleAssistant, Content: "Tell me more."},
	}
	actual := Apply("prompt", msgs)
	expected := []models.ChatMessage{
		{Role: models.RoleSystem, Content: "prompt"},
		{Role: models.RoleUser, Content: "My skin is dry."},
		{Role: models.RoleAssistant, Content: "Tell me more."},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Error(diff)
	}
	if len(msgs) != 2 {
		t.Errorf("input slice was modified")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.md")
	if err := os.WriteFile(custom, []byte("Be brief."), 0o600); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		filename  string
		expected  string
		expectErr bool
	}{
		{
			name:     "no file returns the built-in prompt",
			filename: "",
			expected: Prompt,
		},
		{
			name:     "file contents replace the prompt",
			filename: custom,
			expected: "Be brief.",
		},
		{
			name:      "missing files are an error",
			filename:  filepath.Join(dir, "missing.md"),
			expectErr: true,
		},
		{
			name:      "blank files are an error",
			filename:  empty,
			expectErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := Load(tt.filename)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if actual != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, actual)
			}
		})
	}
}

package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/glamcare/client"
	"github.com/a-h/glamcare/models"
	"github.com/a-h/glamcare/upstream"
)

// The integration tests expect `glamcare serve --provider=test` to be
// listening on localhost:9020.
const relayURL = "http://localhost:9020"

func TestChatPost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	var sb strings.Builder
	var deltas int
	f := func(ctx context.Context, delta string) (err error) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		deltas++
		sb.WriteString(delta)
		return nil
	}
	c := client.New(relayURL, "")
	err := c.ChatPost(context.Background(), models.ChatPostRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "How can I reduce acne naturally?"},
		},
	}, f)
	if err != nil {
		t.Fatalf("failed to post chat: %v", err)
	}
	if actual := sb.String(); actual != upstream.TestMessage {
		t.Fatalf("expected %q, got %q", upstream.TestMessage, actual)
	}
	if deltas < 2 {
		t.Errorf("expected the reply to arrive in several deltas, got %d", deltas)
	}
}

package upstream

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/a-h/glamcare/models"
)

const TestMessage = `Hello!

I'm a test message.

I'm here to help you test your integration with the relay.

If you can see me, then your integration is working!`

// NewCanned returns an upstream that streams TestMessage in small frames
// without calling any provider.
func NewCanned(delay time.Duration) *Canned {
	return &Canned{
		Delay: delay,
	}
}

type Canned struct {
	// Delay between frames.
	Delay time.Duration
}

func (c *Canned) Stream(ctx context.Context, msgs []models.ChatMessage) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(c.write(ctx, pw))
	}()
	return pr, nil
}

func (c *Canned) write(ctx context.Context, w io.Writer) error {
	for chunk := range slices.Chunk([]rune(TestMessage), 4) {
		if err := writeFrame(w, string(chunk)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.Delay):
		}
	}
	_, err := io.WriteString(w, "data: [DONE]\n\n")
	return err
}

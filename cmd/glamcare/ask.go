package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/a-h/glamcare/client"
	"github.com/a-h/glamcare/models"
)

type AskCommand struct {
	URL      string `help:"The URL of the GlamCare relay." env:"GLAMCARE_URL" default:"http://localhost:9020"`
	APIKey   string `help:"The API key for the relay." env:"GLAMCARE_RELAY_API_KEY" default:""`
	Question string `help:"The question to ask." short:"q" required:""`
	LogLevel string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c AskCommand) Run(ctx context.Context) (err error) {
	log, closeLog := getLogger(c.LogLevel, "")
	defer closeLog()
	log.Debug("asking", slog.String("url", c.URL))

	rsc := client.New(c.URL, c.APIKey)
	f := func(ctx context.Context, delta string) error {
		_, err := io.WriteString(os.Stdout, delta)
		return err
	}
	err = rsc.ChatPost(ctx, models.ChatPostRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: c.Question},
		},
	}, f)
	fmt.Println()
	var se *client.StatusError
	if errors.As(err, &se) {
		return fmt.Errorf("%s: %w", se.Notification(), err)
	}
	return err
}

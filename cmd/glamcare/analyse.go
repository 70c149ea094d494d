package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/a-h/glamcare/client"
	"github.com/a-h/glamcare/models"
)

type AnalyseCommand struct {
	URL    string `help:"The URL of the GlamCare relay." env:"GLAMCARE_URL" default:"http://localhost:9020"`
	APIKey string `help:"The API key for the relay." env:"GLAMCARE_RELAY_API_KEY" default:""`
	Image  string `help:"The photo to analyse." type:"existingfile" required:""`
	Pretty bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c AnalyseCommand) Run(ctx context.Context) (err error) {
	data, err := os.ReadFile(c.Image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	image := "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)

	rsc := client.New(c.URL, c.APIKey)
	resp, err := rsc.AnalysisPost(ctx, models.AnalysisPostRequest{
		Image: image,
	})
	if err != nil {
		return fmt.Errorf("failed to analyse image: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

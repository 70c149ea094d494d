package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/glamcare/analysis"
	"github.com/a-h/glamcare/auth"
	"github.com/a-h/glamcare/cors"
	analysispost "github.com/a-h/glamcare/handlers/analysis/post"
	chatpost "github.com/a-h/glamcare/handlers/chat/post"
	"github.com/a-h/glamcare/persona"
	"github.com/a-h/glamcare/upstream"
	"github.com/tmc/langchaingo/llms/ollama"
)

type ServeCommand struct {
	ListenAddr  string `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	UpstreamURL string `help:"The chat completions endpoint of the AI gateway." env:"GLAMCARE_UPSTREAM_URL" default:"https://ai.gateway.lovable.dev/v1/chat/completions"`
	APIKey      string `help:"The API key for the AI gateway." env:"GLAMCARE_API_KEY" default:""`
	Model       string `help:"The model to chat with." env:"GLAMCARE_MODEL" default:"google/gemini-3-flash-preview"`
	Provider    string `help:"Where replies come from." env:"GLAMCARE_PROVIDER" enum:"gateway,ollama,test" default:"gateway"`
	OllamaURL   string `help:"The URL of the Ollama server, used by the ollama provider." env:"OLLAMA_URL" default:"http://127.0.0.1:11434/"`
	PersonaFile string `help:"A file containing a replacement system prompt." env:"PERSONA_FILE" default:""`
	APIKeysFile string `help:"The file containing a JSON map of API keys to usernames. Authentication is disabled when empty." env:"API_KEYS_FILE" default:""`
	TLSCertFile string `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile  string `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	LogLevel    string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
	LogFile     string `help:"A file to write logs to, in addition to stderr." env:"LOG_FILE" default:""`
}

func (c ServeCommand) upstream(log *slog.Logger) (upstream.Upstream, error) {
	switch c.Provider {
	case "ollama":
		log.Info("using ollama", slog.String("url", c.OllamaURL), slog.String("model", c.Model))
		llm, err := ollama.New(
			ollama.WithModel(c.Model),
			ollama.WithHTTPClient(&http.Client{}),
			ollama.WithServerURL(c.OllamaURL))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM: %w", err)
		}
		return upstream.NewLLM(llm), nil
	case "test":
		log.Warn("using canned test replies")
		return upstream.NewCanned(100 * time.Millisecond), nil
	}
	if c.APIKey == "" {
		log.Warn("no gateway API key configured, chat requests will fail")
	}
	log.Info("using gateway", slog.String("url", c.UpstreamURL), slog.String("model", c.Model))
	return upstream.NewGateway(upstream.Config{
		URL:    c.UpstreamURL,
		APIKey: c.APIKey,
		Model:  c.Model,
	}), nil
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log, closeLog := getLogger(c.LogLevel, c.LogFile)
	defer closeLog()

	systemPrompt, err := persona.Load(c.PersonaFile)
	if err != nil {
		return fmt.Errorf("failed to load persona: %w", err)
	}
	up, err := c.upstream(log)
	if err != nil {
		return err
	}
	catalog, err := analysis.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load skin type catalog: %w", err)
	}

	mux := http.NewServeMux()

	cph := chatpost.New(log, up, systemPrompt)
	mux.Handle("POST /skincare-chat", cph)

	aph := analysispost.New(log, analysis.NewRandom(nil), catalog)
	mux.Handle("POST /skin-analysis", aph)

	var h http.Handler = mux
	if c.APIKeysFile != "" {
		apiKeyToUserName, err := auth.LoadFromFile(c.APIKeysFile)
		if err != nil {
			return fmt.Errorf("failed to load API keys: %w", err)
		}
		log.Info("API key authentication enabled", slog.Int("keys", len(apiKeyToUserName)))
		h = auth.New(apiKeyToUserName, h)
	}
	h = cors.New(h)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: h,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	slogmulti "github.com/samber/slog-multi"
)

type CLI struct {
	Serve   ServeCommand   `cmd:"serve" help:"Start the chat relay."`
	Chat    ChatCommand    `cmd:"chat" help:"Chat with the skincare assistant."`
	Ask     AskCommand     `cmd:"ask" help:"Ask a single question and stream the answer to stdout."`
	Analyse AnalyseCommand `cmd:"analyse" help:"Analyse a photo to guess the skin type."`
	Version VersionCommand `cmd:"version" help:"Print the version of the relay."`
}

func main() {
	// Values from .env are only used when the variable isn't already set.
	_ = godotenv.Load()

	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log, _ := getLogger("error", "")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// getLogger logs JSON to stderr, and also to logFile if one is given.
// The returned function closes the file.
func getLogger(level, logFile string) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	stderr := slog.NewJSONHandler(os.Stderr, opts)
	if logFile == "" {
		return slog.New(stderr), func() error { return nil }
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := slog.New(stderr)
		log.Error("failed to open log file, using stderr only", slog.String("file", logFile), slog.Any("error", err))
		return log, func() error { return nil }
	}
	return slog.New(slogmulti.Fanout(stderr, slog.NewJSONHandler(f, opts))), f.Close
}

package post

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/glamcare/auth"
	"github.com/a-h/glamcare/models"
	"github.com/a-h/glamcare/persona"
	"github.com/a-h/glamcare/upstream"
	"github.com/a-h/respond"
)

const (
	RateLimitMessage   = "Rate limit exceeded. Please try again in a moment."
	UnavailableMessage = "Service temporarily unavailable. Please try again later."
	UpstreamMessage    = "AI service error"
)

func New(log *slog.Logger, up upstream.Upstream, systemPrompt string) Handler {
	return Handler{
		log:          log,
		upstream:     up,
		systemPrompt: systemPrompt,
	}
}

type Handler struct {
	log          *slog.Logger
	upstream     upstream.Upstream
	systemPrompt string
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.ChatPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	attrs := []any{slog.Int("messages", len(req.Messages))}
	if user, ok := auth.GetUser(r); ok {
		attrs = append(attrs, slog.String("user", user))
	}
	h.log.Info("relaying conversation", attrs...)

	body, err := h.upstream.Stream(r.Context(), persona.Apply(h.systemPrompt, req.Messages))
	if err != nil {
		h.handleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	n, err := copyWithFlush(w, body)
	if err != nil {
		// Headers are gone, so all that's left is to log it.
		h.log.Warn("stream interrupted", slog.Int64("bytes", n), slog.Any("error", err))
		return
	}
	h.log.Debug("stream complete", slog.Int64("bytes", n))
}

func (h Handler) handleError(w http.ResponseWriter, err error) {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusTooManyRequests:
			h.log.Warn("upstream rate limited")
			writeError(w, RateLimitMessage, http.StatusTooManyRequests)
		case http.StatusPaymentRequired:
			h.log.Warn("upstream payment required")
			writeError(w, UnavailableMessage, http.StatusPaymentRequired)
		default:
			h.log.Error("upstream error", slog.Int("status", se.Status), slog.String("body", se.Body))
			writeError(w, UpstreamMessage, http.StatusInternalServerError)
		}
		return
	}
	h.log.Error("chat error", slog.Any("error", err))
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	respond.WithJSON(w, models.ErrorResponse{Error: msg}, status)
}

func copyWithFlush(w http.ResponseWriter, r io.Reader) (n int64, err error) {
	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		read, readErr := r.Read(buf)
		if read > 0 {
			written, err := w.Write(buf[:read])
			n += int64(written)
			if err != nil {
				return n, err
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return n, nil
		}
		if readErr != nil {
			return n, readErr
		}
	}
}

// Package chat holds the state of a single chat widget: the messages shown
// to the user and the one reply that may be streaming in.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/a-h/glamcare/client"
	"github.com/a-h/glamcare/models"
	"github.com/google/uuid"
)

// ContextWindow is the number of previous messages sent along with a new one.
const ContextWindow = 10

const (
	WelcomeID   = "welcome"
	WelcomeText = "Hello! I'm your GlamCare AI assistant. How can I help you with your skincare today?"
)

// QuickQuestions are offered to the user as one-tap prompts.
var QuickQuestions = []string{
	"How can I reduce acne naturally?",
	"What helps with dry, flaky skin?",
	"How do I reduce dark circles?",
	"Which foods are good for healthy skin?",
}

var (
	ErrBusy   = errors.New("chat: a reply is already in progress")
	ErrEmpty  = errors.New("chat: message is empty")
	ErrClosed = errors.New("chat: session is closed")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type DisplayMessage struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

type State int

const (
	StateIdle State = iota
	StateSending
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Streamer is implemented by client.Client.
type Streamer interface {
	ChatPost(ctx context.Context, req models.ChatPostRequest, f func(ctx context.Context, delta string) error) error
}

// Notifier shows a single, non-blocking error message to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

func New(streamer Streamer, notifier Notifier) *Session {
	s := &Session{
		streamer: streamer,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	s.messages = []DisplayMessage{
		{
			ID:        WelcomeID,
			Text:      WelcomeText,
			Sender:    SenderBot,
			Timestamp: s.now(),
		},
	}
	return s
}

type Session struct {
	streamer Streamer
	notifier Notifier
	// OnChange receives a copy of the messages after every change. It must
	// be set before the first call to Send.
	OnChange func(msgs []DisplayMessage)

	now   func() time.Time
	newID func() string

	m        sync.Mutex
	messages []DisplayMessage
	state    State
	cancel   context.CancelFunc
	closed   bool
}

// Messages returns a copy of the display history, oldest first.
func (s *Session) Messages() []DisplayMessage {
	s.m.Lock()
	defer s.m.Unlock()
	return s.snapshot()
}

func (s *Session) State() State {
	s.m.Lock()
	defer s.m.Unlock()
	return s.state
}

// Ask sends one of the QuickQuestions.
func (s *Session) Ask(ctx context.Context, index int) error {
	if index < 0 || index >= len(QuickQuestions) {
		return fmt.Errorf("chat: no quick question at index %d", index)
	}
	return s.Send(ctx, QuickQuestions[index])
}

// Send appends text as a user message and streams the reply. It blocks
// until the reply is complete, and returns ErrBusy without changing
// anything if a reply is already streaming.
func (s *Session) Send(ctx context.Context, text string) (err error) {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}

	s.m.Lock()
	if s.closed {
		s.m.Unlock()
		return ErrClosed
	}
	if s.state != StateIdle {
		s.m.Unlock()
		return ErrBusy
	}
	s.state = StateSending
	req := models.ChatPostRequest{
		Messages: append(s.history(), models.ChatMessage{Role: models.RoleUser, Content: text}),
	}
	s.messages = append(s.messages, DisplayMessage{
		ID:        s.newID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: s.now(),
	})
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	msgs := s.snapshot()
	s.m.Unlock()
	s.changed(msgs)

	var botID string
	defer func() {
		cancel()
		s.finish(botID, err)
	}()

	var reply strings.Builder
	return s.streamer.ChatPost(ctx, req, func(ctx context.Context, delta string) error {
		s.m.Lock()
		if s.closed {
			s.m.Unlock()
			return context.Canceled
		}
		reply.WriteString(delta)
		if botID == "" {
			botID = s.newID()
			s.messages = append(s.messages, DisplayMessage{
				ID:        botID,
				Sender:    SenderBot,
				Timestamp: s.now(),
			})
		}
		s.setText(botID, reply.String())
		msgs := s.snapshot()
		s.m.Unlock()
		s.changed(msgs)
		return nil
	})
}

func (s *Session) finish(botID string, err error) {
	s.m.Lock()
	s.cancel = nil
	if err == nil {
		s.state = StateIdle
		s.m.Unlock()
		return
	}
	removed := s.remove(botID)
	s.state = StateError
	closed := s.closed
	msgs := s.snapshot()
	s.m.Unlock()

	if removed {
		s.changed(msgs)
	}
	if !closed && s.notifier != nil {
		s.notifier.Notify(notification(err))
	}

	s.m.Lock()
	s.state = StateIdle
	s.m.Unlock()
}

// Close cancels any reply that is still streaming. Deltas that arrive
// afterwards are discarded.
func (s *Session) Close() {
	s.m.Lock()
	defer s.m.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

func notification(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) {
		return se.Notification()
	}
	return client.GenericNotification
}

// history returns the messages sent upstream as context. The caller must
// hold the lock.
func (s *Session) history() []models.ChatMessage {
	var msgs []models.ChatMessage
	for _, m := range s.messages {
		if m.ID == WelcomeID {
			continue
		}
		role := models.RoleUser
		if m.Sender == SenderBot {
			role = models.RoleAssistant
		}
		msgs = append(msgs, models.ChatMessage{Role: role, Content: m.Text})
	}
	if len(msgs) > ContextWindow {
		msgs = msgs[len(msgs)-ContextWindow:]
	}
	return msgs
}

func (s *Session) setText(id, text string) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Text = text
			return
		}
	}
}

func (s *Session) remove(id string) bool {
	if id == "" {
		return false
	}
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) snapshot() []DisplayMessage {
	msgs := make([]DisplayMessage, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

func (s *Session) changed(msgs []DisplayMessage) {
	if s.OnChange != nil {
		s.OnChange(msgs)
	}
}

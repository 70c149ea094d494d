package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/a-h/glamcare/chat"
	"github.com/a-h/glamcare/client"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ChatCommand struct {
	URL    string `help:"The URL of the GlamCare relay." env:"GLAMCARE_URL" default:"http://localhost:9020"`
	APIKey string `help:"The API key for the relay." env:"GLAMCARE_RELAY_API_KEY" default:""`
}

// notificationMsg is a message for the user that replaces the last one.
type notificationMsg string

func (c ChatCommand) Run(ctx context.Context) (err error) {
	var p *tea.Program
	session := chat.New(client.New(c.URL, c.APIKey), chat.NotifierFunc(func(message string) {
		p.Send(notificationMsg(message))
	}))
	defer session.Close()
	session.OnChange = func(msgs []chat.DisplayMessage) {
		p.Send(msgs)
	}

	p = tea.NewProgram(newModel(ctx, session))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var headerStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(0, 1)

var quickQuestionStyle = lipgloss.NewStyle().Foreground(Comment)

var notificationStyle = lipgloss.NewStyle().Foreground(Red).Bold(true)

type model struct {
	viewport     viewport.Model
	textarea     textarea.Model
	notification string
	ctx          context.Context
	session      *chat.Session
	messages     []chat.DisplayMessage
}

func newModel(ctx context.Context, session *chat.Session) model {
	ta := textarea.New()
	ta.Placeholder = "Ask about your skin..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 500

	ta.SetHeight(3)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)

	ta.KeyMap.InsertNewline.SetEnabled(false)

	m := model{
		ctx:      ctx,
		textarea: ta,
		viewport: vp,
		session:  session,
		messages: session.Messages(),
	}
	m.render()
	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

var senderToStyle = map[chat.Sender]lipgloss.Style{
	chat.SenderUser: lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Pink),
	chat.SenderBot:  lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Cyan),
}

var senderToIcon = map[chat.Sender]string{
	chat.SenderUser: "🙂",
	chat.SenderBot:  "✨",
}

func formatMessage(msg chat.DisplayMessage, width int) string {
	style, ok := senderToStyle[msg.Sender]
	if !ok {
		return msg.Text
	}
	icon, ok := senderToIcon[msg.Sender]
	if !ok {
		icon = "🤷"
	}
	wrapped := wordwrap.String(strings.TrimSpace(icon+" "+msg.Text), width)
	footer := quickQuestionStyle.Render(msg.Timestamp.Format("15:04"))
	return style.Render(wrapped) + "\n  " + footer
}

func quickQuestions() string {
	var sb strings.Builder
	for i, q := range chat.QuickQuestions {
		sb.WriteString(quickQuestionStyle.Render(fmt.Sprintf("  alt+%d: %s", i+1, q)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *model) render() {
	width := m.viewport.Width - 6
	if width < 20 {
		width = 20
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("GlamCare AI"))
	sb.WriteString("\n")
	for _, dm := range m.messages {
		sb.WriteString(formatMessage(dm, width))
		sb.WriteString("\n")
	}
	if len(m.messages) == 1 {
		sb.WriteString("\n")
		sb.WriteString(quickQuestions())
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// send runs outside the update loop, since the session reports progress
// back to the program while the reply streams in.
func (m model) send(f func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := f(m.ctx)
		if errors.Is(err, chat.ErrBusy) {
			return notificationMsg("Please wait for the current reply to finish.")
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationMsg:
		m.notification = string(msg)
		return m, nil
	case []chat.DisplayMessage:
		m.messages = msg
		m.render()
		return m, nil
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 4
		m.textarea.SetWidth(msg.Width)
		m.render()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		case "alt+1", "alt+2", "alt+3", "alt+4":
			index := int(msg.String()[len("alt+")] - '1')
			m.notification = ""
			return m, m.send(func(ctx context.Context) error {
				return m.session.Ask(ctx, index)
			})
		case "enter":
			v := strings.TrimSpace(m.textarea.Value())
			if v == "" {
				// Don't send empty messages.
				return m, nil
			}
			m.textarea.Reset()
			m.notification = ""
			return m, m.send(func(ctx context.Context) error {
				return m.session.Send(ctx, v)
			})
		default:
			// Send all other keypresses to the textarea.
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}

	case cursor.BlinkMsg:
		// Textarea should also process cursor blinks.
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m model) View() string {
	status := ""
	if m.session.State() == chat.StateSending {
		status = quickQuestionStyle.Render("thinking...")
	}
	if m.notification != "" {
		status = notificationStyle.Render(m.notification)
	}
	return fmt.Sprintf("%s\n%s\n%s",
		m.viewport.View(),
		status,
		m.textarea.View(),
	) + "\n\n"
}

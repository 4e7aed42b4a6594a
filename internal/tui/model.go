package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/lexchat/lexchat"
	"github.com/lexchat/lexchat/core"
)

const (
	submitTimeout = 120 * time.Second
	probeTimeout  = 10 * time.Second
)

// exampleQueries are shown while the transcript is empty so a first-time
// user knows what kind of questions the service answers.
var exampleQueries = []string{
	"What notice period applies to terminating the lease?",
	"Which clauses limit the landlord's liability?",
	"Summarize the tenant's maintenance obligations.",
}

type submitDoneMsg struct {
	turn *core.Turn
	err  error
}

type statusDoneMsg struct {
	status *core.SystemStatus
	err    error
}

type Model struct {
	chat *lexchat.Chat

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model
	theme      theme
	renderer   *glamour.TermRenderer

	width       int
	height      int
	ready       bool
	waiting     bool
	showDetails bool
	notice      string
}

func NewModel(chat *lexchat.Chat) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Ask about the document..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points

	th := newTheme()
	sp.Style = th.statusOK

	return Model{
		chat:       chat,
		input:      input,
		transcript: viewport.New(0, 0),
		spinner:    sp,
		theme:      th,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.probeCmd())
}

func (m Model) probeCmd() tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		status, err := chat.RefreshStatus(ctx)
		return statusDoneMsg{status: status, err: err}
	}
}

func (m Model) submitCmd(question string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		turn, err := chat.Submit(ctx, question)
		return submitDoneMsg{turn: turn, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width
		m.transcript.Height = msg.Height - chromeHeight
		if m.transcript.Height < 1 {
			m.transcript.Height = 1
		}
		m.input.Width = msg.Width - 4
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-6),
		)
		m.ready = true
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				break
			}
			question := m.input.Value()
			m.input.SetValue("")
			m.notice = ""
			m.waiting = true
			m.refreshTranscript()
			cmds = append(cmds, m.submitCmd(question))
		case "ctrl+l":
			if !m.waiting {
				if err := m.chat.Clear(); err == nil {
					m.notice = "conversation cleared"
					m.refreshTranscript()
				}
			}
		case "ctrl+e":
			m.showDetails = !m.showDetails
			m.refreshTranscript()
		case "ctrl+r":
			cmds = append(cmds, m.probeCmd())
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			cmds = append(cmds, cmd)
		}

	case submitDoneMsg:
		m.waiting = false
		// Both answers and failures land in the transcript as turns;
		// nothing extra to surface unless the submission was a no-op.
		if msg.turn == nil && msg.err == nil {
			m.notice = "type a question first"
		}
		m.refreshTranscript()
		m.transcript.GotoBottom()

	case statusDoneMsg:
		// The status snapshot is read back from the facade in View;
		// a failed probe leaves the bar in its degraded state.
		_ = msg

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

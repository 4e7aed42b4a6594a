package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/evidence"
)

// chromeHeight is the number of rows taken by the status bar, the input
// line, and the help line below the transcript viewport.
const chromeHeight = 3

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	turns := m.chat.Turns()
	if len(turns) == 0 {
		m.transcript.SetContent(m.welcomeView())
		return
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn))
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

func (m *Model) welcomeView() string {
	var b strings.Builder
	b.WriteString(m.theme.meta.Render("Ask a question about the loaded document.") + "\n\n")
	b.WriteString(m.theme.hint.Render("Examples:") + "\n")
	for _, q := range exampleQueries {
		b.WriteString(m.theme.hint.Render("  • "+q) + "\n")
	}
	return b.String()
}

func (m *Model) renderTurn(turn core.Turn) string {
	switch turn.Role {
	case core.RoleUser:
		return m.theme.user.Render("You") + "\n" + turn.Content + "\n"
	case core.RoleError:
		return m.theme.errorMsg.Render("⚠ "+turn.Content) + "\n"
	default:
		return m.renderAssistantTurn(turn)
	}
}

func (m *Model) renderAssistantTurn(turn core.Turn) string {
	var b strings.Builder
	header := m.theme.assistant.Bold(true).Render("Assistant")
	if turn.ElapsedSeconds > 0 {
		header += " " + m.theme.meta.Render(fmt.Sprintf("(%.1fs)", turn.ElapsedSeconds))
	}
	b.WriteString(header + "\n")

	body := turn.Content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(turn.Content); err == nil {
			body = strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	b.WriteString(body)

	if m.showDetails && turn.Evidence != nil && !turn.Evidence.IsEmpty() {
		b.WriteString(m.renderEvidence(turn.Evidence))
	}
	return b.String()
}

func (m *Model) renderEvidence(pkg *core.EvidencePackage) string {
	var b strings.Builder
	items := pkg.Results
	if len(items) == 0 {
		items = pkg.UsedChunks
	}
	for _, item := range items {
		line := truncate(item.Content, 100)
		if score, ok := evidence.Primary(item.Scores); ok {
			line = m.theme.meta.Render(fmt.Sprintf("%.3f %s", score.Value, score.Scheme)) + "  " + line
		}
		if item.UsedInAnswer {
			line = m.theme.badge.Render("used") + " " + line
		}
		b.WriteString(line + "\n")
	}
	for _, w := range pkg.WebResults {
		b.WriteString(m.theme.meta.Render("web ") + w.Title + " " + m.theme.hint.Render(w.URL) + "\n")
	}
	if pkg.TokenUsage != nil {
		b.WriteString(m.theme.meta.Render(fmt.Sprintf(
			"tokens: %d in / %d out / %d total", pkg.TokenUsage.Input, pkg.TokenUsage.Output, pkg.TokenUsage.Total)) + "\n")
	}
	return m.theme.panel.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) statusBar() string {
	status := m.chat.Status()
	var health string
	switch {
	case status == nil:
		health = m.theme.meta.Render("● checking...")
	case status.Ready:
		health = m.theme.statusOK.Render("● ready")
		if status.ToolCount > 0 {
			health += m.theme.meta.Render(fmt.Sprintf("  %d tools", status.ToolCount))
		}
		if status.Version != "" {
			health += m.theme.meta.Render("  v" + status.Version)
		}
	default:
		detail := status.LastError
		if detail == "" {
			detail = "backend not ready"
		}
		health = m.theme.statusBad.Render("● " + truncate(detail, 60))
	}
	queries := m.theme.meta.Render(fmt.Sprintf("queries: %d", m.chat.QueryCount()))
	gap := m.width - lipgloss.Width(health) - lipgloss.Width(queries) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.bar.Width(m.width).Render(health + strings.Repeat(" ", gap) + queries)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	inputView := m.input.View()
	if m.waiting {
		inputView = m.spinner.View() + " thinking..."
	}

	help := "enter send · ctrl+l clear · ctrl+e evidence · ctrl+r status · esc quit"
	if m.notice != "" {
		help = m.notice
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(),
		m.transcript.View(),
		inputView,
		m.theme.hint.Render(help),
	)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

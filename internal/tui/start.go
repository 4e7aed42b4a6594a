package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexchat/lexchat"
)

// Start runs the chat interface until the user quits.
func Start(chat *lexchat.Chat) error {
	program := tea.NewProgram(NewModel(chat), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"finchat/internal/logging"
)

// handleCommand dispatches slash commands typed in the composer.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.Fields(input)[0])
	m.textinput.Reset()

	switch cmd {
	case "/quit", "/exit":
		m.manager.Close()
		return m, tea.Quit

	case "/clear":
		// Wipe local history immediately and ask the backend to drop its
		// conversational context. The cleared ack has no further effect.
		m.store.ClearAll()
		m.store.ClearError()
		if err := m.manager.SendClear(); err != nil {
			logging.For(logging.CategoryUI).Debugw("clear not sent", "error", err)
		}
		m.statusMessage = "History cleared"

	case "/cancel":
		if !m.store.Thinking() {
			m.statusMessage = "Nothing to cancel"
			break
		}
		// Optimistic: clear thinking now rather than waiting for the ack.
		// A late chat_response is appended normally if it still arrives.
		if err := m.manager.SendCancel(); err != nil {
			logging.For(logging.CategoryUI).Debugw("cancel not sent", "error", err)
		}
		m.store.ClearThinking()
		m.statusMessage = "Cancelled"

	case "/connect":
		m.manager.Connect()
		m.statusMessage = ""

	case "/disconnect":
		m.manager.Disconnect()
		m.statusMessage = "Disconnected"

	case "/help":
		m.statusMessage = "/clear /cancel /connect /disconnect /quit"

	default:
		m.statusMessage = "Unknown command: " + cmd + " (try /help)"
	}

	m.refreshViewport()
	return m, nil
}

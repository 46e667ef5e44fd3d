package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"finchat/internal/connection"
	"finchat/internal/logging"
	"finchat/internal/protocol"
	"finchat/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.manager.Close()
			return m, tea.Quit

		case tea.KeyEnter:
			return m.handleSubmit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 4
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textinput.Width = msg.Width - 6

		// Re-wrap markdown at the new width.
		wrap := msg.Width - 4
		if wrap > 20 {
			if m.styles.Theme.IsDark {
				m.renderer, _ = glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(wrap),
				)
			} else {
				m.renderer, _ = glamour.NewTermRenderer(
					glamour.WithStylePath("light"),
					glamour.WithWordWrap(wrap),
				)
			}
		}

		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd

	case connEventMsg:
		m = m.applyConnEvent(connection.Event(msg))
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, nil
	}

	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSubmit processes Enter in the composer: slash commands, the local
// empty-message reject, and the single-in-flight contract.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textinput.Value())
	if text == "" {
		// The backend would answer EMPTY_MESSAGE; don't bother it.
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	if m.store.Thinking() {
		m.statusMessage = "Still thinking — /cancel to abort the current request"
		return m, nil
	}

	if err := m.manager.SendChat(text); err != nil {
		// Not connected: surface locally, leave the composer content and
		// the thinking flag untouched.
		m.store.SetError("not connected — /connect to retry")
		logging.For(logging.CategoryUI).Warnw("send failed", "error", err)
		m.refreshViewport()
		return m, nil
	}

	m.store.AppendUser(text)
	m.store.ClearError()
	m.statusMessage = ""
	m.textinput.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// applyConnEvent applies one Connection Manager event to the session state.
// All store mutations happen here, on the Update goroutine.
func (m Model) applyConnEvent(ev connection.Event) Model {
	switch ev.Kind {
	case connection.EventStateChanged:
		m.connState = ev.State
		if ev.State == connection.Disconnected {
			// The identity and any in-flight request die with the transport.
			m.store.ClearIdentity()
			m.store.ClearThinking()
		}

	case connection.EventError:
		if ev.Err != nil {
			m.store.SetError(ev.Err.Error())
		}

	case connection.EventFrame:
		m.applyFrame(ev.Frame)
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

func (m *Model) applyFrame(frame protocol.Incoming) {
	switch f := frame.(type) {
	case protocol.Connected:
		m.store.SetIdentity(session.Identity{SessionID: f.SessionID, Stats: f.Stats})

	case protocol.ChatResponse:
		m.store.AppendAssistant(f)

	case protocol.BackendError:
		m.store.AppendError(f.Code, f.Message)

	case protocol.Cancelled:
		m.store.ClearThinking()

	case protocol.Cleared:
		// Local history was already wiped when /clear was issued.

	default:
		logging.For(logging.CategoryUI).Debugw("unhandled frame", "frame", frame)
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderHistory())
}

// Package chat provides the interactive TUI for the finance chat backend.
// The functionality is split across files:
//   - model.go: types, construction, Init
//   - update.go: the Update loop and event application
//   - commands.go: /command handling
//   - view.go: rendering functions
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"finchat/cmd/finchat/config"
	"finchat/cmd/finchat/ui"
	"finchat/internal/connection"
	"finchat/internal/logging"
	"finchat/internal/session"
	"finchat/internal/structure"
)

// Model is the main model for the interactive chat interface
type Model struct {
	// UI Components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Core
	store   *session.Store
	manager *connection.Manager

	// State
	connState     connection.State
	statusMessage string
	width         int
	height        int
	ready         bool

	Config config.Config
}

// Messages for tea updates
type (
	// connEventMsg delivers one Connection Manager event into the Update
	// loop, preserving single-threaded event ordering.
	connEventMsg connection.Event

	// eventsClosedMsg signals the manager's event stream has ended.
	eventsClosedMsg struct{}
)

// InitChat initializes the interactive chat model
func InitChat(appCfg config.Config) Model {
	// Initialize styles
	styles := ui.DefaultStyles()
	if appCfg.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	// Initialize textinput for the composer
	ti := textinput.New()
	ti.Placeholder = "Ask about your spending... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "| "
	ti.CharLimit = 2048
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	// Initialize spinner
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// Initialize viewport for chat history
	vp := viewport.New(80, 20)
	vp.SetContent("")

	// Initialize markdown renderer
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	// The structurer carries the terminal decorations so prose phrases
	// arrive in the store already colored.
	structurer := &structure.Structurer{Decor: ui.Decorations(styles)}
	store := session.NewStore(structurer)

	manager := connection.New(connection.Config{
		URL:       appCfg.ServerURL,
		Heartbeat: time.Duration(appCfg.HeartbeatSeconds) * time.Second,
	})

	logging.For(logging.CategoryUI).Infow("chat initialized", "server", appCfg.ServerURL)

	return Model{
		textinput: ti,
		spinner:   sp,
		viewport:  vp,
		styles:    styles,
		renderer:  renderer,
		store:     store,
		manager:   manager,
		connState: connection.Disconnected,
		Config:    appCfg,
	}
}

// Init starts the spinner, cursor blink, the initial dial and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.connectCmd(),
		m.waitForEvent(),
	)
}

// connectCmd asks the manager to dial without blocking the Update loop.
func (m Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		m.manager.Connect()
		return nil
	}
}

// waitForEvent blocks on the manager's event stream and feeds the next
// event back into Update as a tea.Msg.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.manager.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return connEventMsg(ev)
	}
}

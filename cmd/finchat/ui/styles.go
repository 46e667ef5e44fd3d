// Package ui provides the visual styling and static widgets for the finchat
// terminal client: theme detection, transaction tables, the budget progress
// bar and the monthly spending chart.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"finchat/internal/structure"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f6f6f4")
	LightForeground = lipgloss.Color("#1c2b21")
	LightPrimary    = lipgloss.Color("#1b5e20") // Deep green
	LightAccent     = lipgloss.Color("#00897b") // Teal
	LightSecondary  = lipgloss.Color("#e4e8e1")
	LightMuted      = lipgloss.Color("#8a9288")
	LightBorder     = lipgloss.Color("#d8ddd5")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#14201a")
	DarkForeground = lipgloss.Color("#e9efe9")
	DarkPrimary    = lipgloss.Color("#66bb6a") // Green (flipped)
	DarkAccent     = lipgloss.Color("#4db6ac") // Teal
	DarkSecondary  = lipgloss.Color("#1e2f26")
	DarkMuted      = lipgloss.Color("#5d6b60")
	DarkBorder     = lipgloss.Color("#2a3c31")
	DarkCard       = lipgloss.Color("#1a2a21")

	// Semantic Colors (same in both modes)
	Credit  = lipgloss.Color("#43a047") // Green - money in
	Debit   = lipgloss.Color("#e53935") // Red - money out
	Warning = lipgloss.Color("#ffb300") // Amber
	Info    = lipgloss.Color("#2196f3") // Blue

	// Budget level colors, keyed to the 80/100 percent thresholds
	BudgetOKColor      = lipgloss.Color("#43a047")
	BudgetWarningColor = lipgloss.Color("#ffb300")
	BudgetOverColor    = lipgloss.Color("#e53935")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal hints or returns light mode
func DetectTheme() Theme {
	// COLORFGBG is usually "foreground;background"; low background indexes
	// are dark terminals.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("FINCHAT_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Interactive
	Prompt        lipgloss.Style
	UserInput     lipgloss.Style
	AgentResponse lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Money
	CreditAmount lipgloss.Style
	DebitAmount  lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
	Banner  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		AgentResponse: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Success: lipgloss.NewStyle().
			Foreground(Credit).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Debit).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		CreditAmount: lipgloss.NewStyle().
			Foreground(Credit),

		DebitAmount: lipgloss.NewStyle().
			Foreground(Debit),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Banner: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the auto-detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// BudgetLevelStyle returns the style for a budget display level.
func (s Styles) BudgetLevelStyle(level structure.BudgetLevel) lipgloss.Style {
	switch level {
	case structure.BudgetOver:
		return lipgloss.NewStyle().Foreground(BudgetOverColor).Bold(true)
	case structure.BudgetWarning:
		return lipgloss.NewStyle().Foreground(BudgetWarningColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(BudgetOKColor)
	}
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

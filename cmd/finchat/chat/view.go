package chat

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"finchat/cmd/finchat/ui"
	"finchat/internal/connection"
	"finchat/internal/session"
	"finchat/internal/structure"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.styles.Content.Render(m.viewport.View())

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" finchat ")
	badge := m.renderConnBadge()

	stats := ""
	if id := m.store.Identity(); id != nil {
		stats = m.styles.Muted.Render(fmt.Sprintf("  %d transactions · %d statements",
			id.Stats.TotalTransactions, id.Stats.TotalStatements))
	}

	status := ""
	if m.store.Thinking() {
		status = lipgloss.JoinHorizontal(lipgloss.Center, "  ", m.spinner.View(), " ", m.styles.Muted.Render("Thinking..."))
	} else if m.connState == connection.Connecting {
		status = lipgloss.JoinHorizontal(lipgloss.Center, "  ", m.spinner.View(), " ", m.styles.Muted.Render("Connecting..."))
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge, stats, status)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		m.styles.RenderDivider(m.width),
	)
}

func (m Model) renderConnBadge() string {
	switch m.connState {
	case connection.Connected:
		return m.styles.Success.Render("● connected")
	case connection.Connecting:
		return m.styles.Warning.Render("◌ connecting")
	case connection.Errored:
		return m.styles.Error.Render("✗ error")
	default:
		return m.styles.Muted.Render("○ offline")
	}
}

func (m Model) renderFooter() string {
	var lines []string

	if lastErr := m.store.LastError(); lastErr != "" {
		lines = append(lines, m.styles.Error.Render("✗ "+lastErr))
	}
	if m.statusMessage != "" {
		lines = append(lines, m.styles.Info.Render(m.statusMessage))
	}

	timestamp := time.Now().Format("15:04")
	help := m.styles.Muted.Render(fmt.Sprintf("%s | /help for commands | Ctrl+C to quit", timestamp))
	lines = append(lines, help)

	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.store.Messages() {
		switch msg.Role {
		case session.RoleUser:
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n")

		case session.RoleError:
			label := "Error"
			if msg.ErrorCode != "" {
				label = "Error (" + msg.ErrorCode + ")"
			}
			sb.WriteString(m.styles.Error.MarginTop(1).Render(label) + "\n")
			sb.WriteString(m.styles.Body.Render(msg.Content))
			sb.WriteString("\n")

		default: // assistant
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("Assistant") + "\n")
			sb.WriteString(m.renderAssistantMessage(msg))
		}
	}

	if m.store.Thinking() {
		sb.WriteString("\n" + m.spinner.View() + m.styles.Muted.Render(" ..."))
	}

	return sb.String()
}

// renderAssistantMessage renders the structured segments of one reply:
// hoisted budget widget first, then the segment sequence, then the chart,
// the matching-transactions table and the generation stats line.
func (m Model) renderAssistantMessage(msg session.Message) string {
	var sb strings.Builder

	if msg.Budget != nil {
		sb.WriteString(ui.RenderBudgetBar(m.styles, *msg.Budget))
		sb.WriteString("\n\n")
	}

	for _, seg := range msg.Segments {
		switch s := seg.(type) {
		case structure.Text:
			sb.WriteString(m.safeRenderMarkdown(html.UnescapeString(s.Content)))
			sb.WriteString("\n")

		case structure.TransactionRow:
			sb.WriteString(m.renderStandaloneRow(s))
			sb.WriteString("\n")

		case structure.TransactionTable:
			sb.WriteString(ui.RenderTransactionTable(m.styles, s))

		case structure.TotalsBanner:
			sb.WriteString(ui.RenderTotalsBanner(m.styles, s))
			sb.WriteString("\n")

		case structure.OverallBudgetBanner:
			sb.WriteString(ui.RenderOverallBudgetBanner(m.styles, s))
			sb.WriteString("\n")
		}
	}

	if msg.Chart != nil {
		sb.WriteString("\n")
		sb.WriteString(ui.RenderMonthlyChart(m.styles, *msg.Chart))
	}

	if len(msg.Transactions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(ui.RenderMatchingTransactions(m.styles, msg.Transactions))
	}

	if msg.LLMStats != nil {
		sb.WriteString(m.renderStatsLine(msg))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) renderStandaloneRow(row structure.TransactionRow) string {
	amountStyle := m.styles.DebitAmount
	sign := "-"
	if row.IsCredit {
		amountStyle = m.styles.CreditAmount
		sign = "+"
	}
	parts := []string{m.styles.Muted.Render(row.Date)}
	if row.Description != "" {
		parts = append(parts, m.styles.Body.Render(row.Description))
	}
	parts = append(parts, amountStyle.Render(sign+structure.FormatAmount(row.Amount)))
	return strings.Join(parts, "  ")
}

func (m Model) renderStatsLine(msg session.Message) string {
	st := msg.LLMStats
	parts := []string{}
	if st.Model != "" {
		parts = append(parts, st.Model)
	}
	if st.EvalCount > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", st.EvalCount))
	}
	if st.TotalDuration > 0 {
		parts = append(parts, time.Duration(st.TotalDuration).Round(100*time.Millisecond).String())
	}
	if len(parts) == 0 {
		return ""
	}
	return m.styles.Muted.Render("· " + strings.Join(parts, " · "))
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

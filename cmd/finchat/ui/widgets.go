package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"finchat/internal/protocol"
	"finchat/internal/structure"
)

const (
	budgetBarWidth    = 30
	chartBarMaxWidth  = 30
	matchingTableRows = 10
)

// Decorations returns the phrase decorations the structurer applies to
// prose: over-budget phrases red, percent-used phrases by threshold level,
// remaining amounts green.
func Decorations(s Styles) structure.Decorations {
	over := lipgloss.NewStyle().Foreground(BudgetOverColor).Bold(true)
	ok := lipgloss.NewStyle().Foreground(BudgetOKColor)
	return structure.Decorations{
		OverBudget: func(phrase string) string { return over.Render(phrase) },
		PercentUsed: func(phrase string, percent int) string {
			return s.BudgetLevelStyle(structure.LevelForPercent(percent)).Render(phrase)
		},
		Remaining: func(phrase string) string { return ok.Render(phrase) },
		OverBy:    func(amount string) string { return over.Render(amount) },
	}
}

// RenderBudgetBar renders the budget progress widget: amounts, a bar
// clamped at 100% visually, and the percent figure kept as-is.
func RenderBudgetBar(s Styles, bp structure.BudgetProgress) string {
	budgetLabel := bp.BudgetLabel
	if budgetLabel == "" {
		budgetLabel = structure.FormatAmount(bp.BudgetAmount)
	}
	spentLabel := bp.SpentLabel
	if spentLabel == "" {
		spentLabel = structure.FormatAmount(bp.SpentAmount)
	}

	levelStyle := s.BudgetLevelStyle(bp.Level())

	filled := bp.Percent * budgetBarWidth / 100
	if filled > budgetBarWidth {
		filled = budgetBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := levelStyle.Render(strings.Repeat("█", filled)) +
		s.Muted.Render(strings.Repeat("░", budgetBarWidth-filled))

	header := s.Bold.Render("Budget ") + s.Body.Render(budgetLabel) +
		s.Muted.Render("  spent ") + s.Body.Render(spentLabel)
	percent := levelStyle.Render(fmt.Sprintf(" %d%%", bp.Percent))

	return header + "\n" + bar + percent
}

// RenderTransactionTable renders a recognized list block. Structured rows
// get date/description/amount columns; unstructured rows span the width
// as a single cell.
func RenderTransactionTable(s Styles, tbl structure.TransactionTable) string {
	var sb strings.Builder
	if tbl.Header != "" {
		sb.WriteString(s.Title.Render(tbl.Header))
		sb.WriteString("\n")
	}

	table := NewSimpleTable("", []string{"Date", "Description", "Amount"})
	table.AlignRight(2)
	for _, row := range tbl.Rows {
		if row.Unstructured() {
			table.AddRow(PlainCell(""), PlainCell(row.Raw), PlainCell(""))
			continue
		}
		table.AddRow(
			PlainCell(row.Date),
			PlainCell(row.Description),
			StyledCell(signedAmount(row.Amount, row.IsCredit), amountStyle(s, row.IsCredit)),
		)
	}
	sb.WriteString(table.View(s))
	return sb.String()
}

// RenderMatchingTransactions renders the transactions attached to a
// response, capped at ten rows with a muted overflow note.
func RenderMatchingTransactions(s Styles, txs []protocol.Transaction) string {
	if len(txs) == 0 {
		return ""
	}

	table := NewSimpleTable(fmt.Sprintf("Matching Transactions (%d)", len(txs)), []string{"Date", "Description", "Amount", "Category"})
	table.AlignRight(2)

	shown := txs
	if len(shown) > matchingTableRows {
		shown = shown[:matchingTableRows]
	}
	for _, tx := range shown {
		credit := strings.EqualFold(tx.TransactionType, "credit")
		table.AddRow(
			PlainCell(tx.Date),
			PlainCell(tx.Description),
			StyledCell(signedAmount(tx.Amount, credit), amountStyle(s, credit)),
			PlainCell(tx.Category),
		)
	}

	out := table.View(s)
	if len(txs) > matchingTableRows {
		out += s.Muted.Render(fmt.Sprintf("… and %d more", len(txs)-matchingTableRows)) + "\n"
	}
	return out
}

// RenderMonthlyChart renders horizontal spending bars, most recent month
// first, scaled to the largest month.
func RenderMonthlyChart(s Styles, chart structure.MonthlySpendingChart) string {
	if len(chart.Months) == 0 {
		return ""
	}

	max := 0.0
	for _, m := range chart.Months {
		if m.Total > max {
			max = m.Total
		}
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Monthly Spending"))
	sb.WriteString("\n")
	for _, m := range chart.Months {
		width := chartBarMaxWidth
		if max > 0 {
			width = int(m.Total / max * chartBarMaxWidth)
		}
		if width < 1 {
			width = 1
		}
		bar := lipgloss.NewStyle().Foreground(s.Theme.Accent).Render(strings.Repeat("▇", width))
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			s.Muted.Render(m.Label), bar, s.Body.Render(structure.FormatAmount(m.Total))))
	}
	return sb.String()
}

// RenderTotalsBanner renders the payments/deposits totals banner.
func RenderTotalsBanner(s Styles, b structure.TotalsBanner) string {
	payments := s.DebitAmount.Render(fmt.Sprintf("%d payments %s", b.PaymentsCount, structure.FormatAmount(b.PaymentsTotal)))
	deposits := s.CreditAmount.Render(fmt.Sprintf("%d deposits %s", b.DepositsCount, structure.FormatAmount(b.DepositsTotal)))
	return s.Banner.Render("TOTALS") + "  " + payments + s.Muted.Render("  |  ") + deposits
}

// RenderOverallBudgetBanner renders the overall budget summary banner.
// Remaining goes red when the budget is blown.
func RenderOverallBudgetBanner(s Styles, b structure.OverallBudgetBanner) string {
	remainingStyle := s.CreditAmount
	if b.Remaining < 0 {
		remainingStyle = s.DebitAmount
	}
	return s.Banner.Render("BUDGET") + "  " +
		s.Body.Render(structure.FormatAmount(b.Budgeted)+" budgeted") +
		s.Muted.Render("  |  ") +
		s.Body.Render(structure.FormatAmount(b.Spent)+" spent") +
		s.Muted.Render("  |  ") +
		remainingStyle.Render(structure.FormatAmount(b.Remaining)+" remaining")
}

func signedAmount(amount float64, credit bool) string {
	if credit {
		return "+" + structure.FormatAmount(amount)
	}
	return "-" + structure.FormatAmount(amount)
}

func amountStyle(s Styles, credit bool) lipgloss.Style {
	if credit {
		return s.CreditAmount
	}
	return s.DebitAmount
}

package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBudgetInfoDirectTemplate(t *testing.T) {
	bp, ok := MatchBudgetInfo("Your budget is R8,000.00 and you've spent R8,480.00 (106% used)")
	require.True(t, ok)
	assert.InDelta(t, 8000, bp.BudgetAmount, 0.001)
	assert.InDelta(t, 8480, bp.SpentAmount, 0.001)
	assert.Equal(t, 106, bp.Percent)
	assert.Equal(t, BudgetOver, bp.Level())
}

func TestMatchBudgetInfoSpentOfTemplate(t *testing.T) {
	bp, ok := MatchBudgetInfo("You've spent R2,000.00 so far of your R3,000.00 budget, which is 67% of it.")
	require.True(t, ok)
	assert.InDelta(t, 3000, bp.BudgetAmount, 0.001)
	assert.InDelta(t, 2000, bp.SpentAmount, 0.001)
	assert.Equal(t, 67, bp.Percent)
	assert.Equal(t, BudgetOK, bp.Level())
}

func TestMatchBudgetInfoDirectTemplateWins(t *testing.T) {
	// Both templates could fire here; the first one must win.
	text := "Your budget is R100.00 and you've spent R50.00 (50% used). You spent R50.00 of R100.00 budget."
	bp, ok := MatchBudgetInfo(text)
	require.True(t, ok)
	assert.Equal(t, 50, bp.Percent)
	assert.InDelta(t, 100, bp.BudgetAmount, 0.001)
}

func TestMatchBudgetInfoNoMatch(t *testing.T) {
	for _, text := range []string{
		"Thanks for your question.",
		"You spent R500.00 last week.",
		"You've spent R2,000.00 of your R3,000.00 budget", // no bare percent anywhere
	} {
		_, ok := MatchBudgetInfo(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestLevelForPercentThresholds(t *testing.T) {
	tests := []struct {
		percent int
		want    BudgetLevel
	}{
		{0, BudgetOK},
		{79, BudgetOK},
		{80, BudgetWarning},
		{99, BudgetWarning},
		{100, BudgetOver},
		{150, BudgetOver}, // stored percent stays unclamped
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPercent(tt.percent), "percent %d", tt.percent)
	}
}

func TestMatchTransactionLine(t *testing.T) {
	row, ok := MatchTransactionLine("2025-09-05: R45.00 debit (eating_out)")
	require.True(t, ok)
	assert.Equal(t, "2025-09-05", row.Date)
	assert.Equal(t, "eating_out", row.Description)
	assert.InDelta(t, 45, row.Amount, 0.001)
	assert.False(t, row.IsCredit)

	row, ok = MatchTransactionLine("2025-09-25: R12,500.00 credit")
	require.True(t, ok)
	assert.True(t, row.IsCredit)
	assert.InDelta(t, 12500, row.Amount, 0.001)
	assert.Empty(t, row.Description)
}

func TestMatchTransactionLineRejects(t *testing.T) {
	for _, line := range []string{
		"2025-09-05: R45.00",            // no type token
		"2025-09-05: 45.00 debit",       // no currency symbol
		"yesterday: R45.00 debit",       // no date
		"2025-09-05: R45.00 withdrawal", // unknown token
	} {
		_, ok := MatchTransactionLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestMatchTotalsBanner(t *testing.T) {
	tb, ok := MatchTotalsBanner("TOTALS: 12 payments R4,500.00 | 3 deposits R7,000.00")
	require.True(t, ok)
	assert.Equal(t, 12, tb.PaymentsCount)
	assert.InDelta(t, 4500, tb.PaymentsTotal, 0.001)
	assert.Equal(t, 3, tb.DepositsCount)
	assert.InDelta(t, 7000, tb.DepositsTotal, 0.001)

	_, ok = MatchTotalsBanner("TOTALS: everything is fine")
	assert.False(t, ok)
}

func TestMatchOverallBudgetBanner(t *testing.T) {
	ob, ok := MatchOverallBudgetBanner("BUDGET: R10,000.00 budgeted | R8,480.00 spent | R1,520.00 remaining")
	require.True(t, ok)
	assert.InDelta(t, 10000, ob.Budgeted, 0.001)
	assert.InDelta(t, 8480, ob.Spent, 0.001)
	assert.InDelta(t, 1520, ob.Remaining, 0.001)

	_, ok = MatchOverallBudgetBanner("BUDGET: looking good")
	assert.False(t, ok)
}

func TestListRowCascadeOrder(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantDate string
		wantDesc string
		wantAmt  float64
		explicit bool
	}{
		{"bulleted", "- 2025-09-05: Coffee Shop - R45.00", "2025-09-05", "Coffee Shop", 45, false},
		{"typed", "2025-09-05: R45.00 debit (eating_out)", "2025-09-05", "eating_out", 45, true},
		{"columns", "2025-09-05  Coffee Shop  -R45.00", "2025-09-05", "Coffee Shop", 45, false},
		{"year month", "2025-09: Coffee Shop - R320.50", "2025-09", "Coffee Shop", 320.5, false},
		{"pipe", "Coffee Shop | R45.00", "", "Coffee Shop", 45, false},
		{"amount first", "R45.00 (2025-09-05) Coffee Shop", "2025-09-05", "Coffee Shop", 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm, ok := matchListRow(tt.line)
			require.True(t, ok)
			assert.False(t, rm.row.Unstructured())
			assert.Equal(t, tt.wantDate, rm.row.Date)
			assert.Equal(t, tt.wantDesc, rm.row.Description)
			assert.InDelta(t, tt.wantAmt, rm.row.Amount, 0.001)
			assert.Equal(t, tt.explicit, rm.explicitType)
		})
	}
}

func TestListRowUnstructuredCell(t *testing.T) {
	rm, ok := matchListRow("some odd note mentioning R99.99 in passing")
	require.True(t, ok)
	assert.True(t, rm.row.Unstructured())
	assert.Equal(t, "some odd note mentioning R99.99 in passing", rm.row.Raw)
}

func TestListRowNoAmountDropped(t *testing.T) {
	_, ok := matchListRow("just a sentence with no money in it")
	assert.False(t, ok)
}

func TestHeaderWantsCredit(t *testing.T) {
	assert.True(t, headerWantsCredit("Money received this month:"))
	assert.True(t, headerWantsCredit("Your deposits:"))
	assert.True(t, headerWantsCredit("Recent credits:"))
	assert.False(t, headerWantsCredit("Recent purchases:"))
	assert.False(t, headerWantsCredit("Largest expenses:"))
}

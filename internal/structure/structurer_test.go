package structure

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finchat/internal/protocol"
)

func structure(t *testing.T, text string) Result {
	t.Helper()
	return New().Structure(text, nil)
}

func TestPlainTextPassesThrough(t *testing.T) {
	res := structure(t, "Thanks for your question.")

	want := []Segment{Text{Content: "Thanks for your question."}}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, res.Budget)
	assert.Nil(t, res.Chart)
}

func TestEscapingRunsFirst(t *testing.T) {
	res := structure(t, "Use <b>caution</b> & check again.")

	require.Len(t, res.Segments, 1)
	text, ok := res.Segments[0].(Text)
	require.True(t, ok)
	assert.Equal(t, "Use &lt;b&gt;caution&lt;/b&gt; &amp; check again.", text.Content)
}

func TestBudgetWidgetHoisted(t *testing.T) {
	res := structure(t, "Your budget is R8,000.00 and you've spent R8,480.00 (106% used)")

	require.NotNil(t, res.Budget)
	assert.InDelta(t, 8000, res.Budget.BudgetAmount, 0.001)
	assert.InDelta(t, 8480, res.Budget.SpentAmount, 0.001)
	assert.Equal(t, 106, res.Budget.Percent)

	// The sentence itself stays in the prose flow.
	require.Len(t, res.Segments, 1)
	_, ok := res.Segments[0].(Text)
	assert.True(t, ok)
}

func TestListBlockTwoDebitRows(t *testing.T) {
	res := structure(t, strings.Join([]string{
		"Recent purchases:",
		"- 2025-09-05: Coffee Shop - R45.00",
		"- 2025-09-06: Groceries - R320.50",
	}, "\n"))

	require.Len(t, res.Segments, 1)
	table, ok := res.Segments[0].(TransactionTable)
	require.True(t, ok, "expected TransactionTable, got %T", res.Segments[0])
	assert.Equal(t, "Recent purchases", table.Header)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2025-09-05", table.Rows[0].Date)
	assert.Equal(t, "Coffee Shop", table.Rows[0].Description)
	assert.InDelta(t, 45, table.Rows[0].Amount, 0.001)
	assert.False(t, table.Rows[0].IsCredit)
	assert.Equal(t, "2025-09-06", table.Rows[1].Date)
	assert.False(t, table.Rows[1].IsCredit)
}

func TestListBlockCreditConvention(t *testing.T) {
	res := structure(t, strings.Join([]string{
		"Money received this month:",
		"- 2025-09-01: Salary - R25,000.00",
		"2025-09-03: R100.00 debit (fees)", // explicit token overrides the block
	}, "\n"))

	require.Len(t, res.Segments, 1)
	table, ok := res.Segments[0].(TransactionTable)
	require.True(t, ok)
	require.Len(t, table.Rows, 2)
	assert.True(t, table.Rows[0].IsCredit, "block convention applies")
	assert.False(t, table.Rows[1].IsCredit, "explicit debit token wins")
}

func TestListBlockDropsAmountlessLines(t *testing.T) {
	res := structure(t, strings.Join([]string{
		"Largest expenses:",
		"- 2025-09-05: Rent - R9,000.00",
		"these are sorted by size", // no amount: dropped silently
		"an odd one for R12.00 though",
	}, "\n"))

	require.Len(t, res.Segments, 1)
	table, ok := res.Segments[0].(TransactionTable)
	require.True(t, ok)
	require.Len(t, table.Rows, 2)
	assert.False(t, table.Rows[0].Unstructured())
	assert.True(t, table.Rows[1].Unstructured())
	assert.Equal(t, "an odd one for R12.00 though", table.Rows[1].Raw)
}

func TestHeaderWithoutRowsStaysProse(t *testing.T) {
	input := "Here is what I found:\nnothing with an amount follows this header."
	res := structure(t, input)

	require.Len(t, res.Segments, 1)
	text, ok := res.Segments[0].(Text)
	require.True(t, ok)
	assert.Equal(t, input, text.Content)
}

func TestStandaloneTransactionLineInline(t *testing.T) {
	res := structure(t, strings.Join([]string{
		"Your last fuel purchase was:",
		"",
		"2025-09-20: R850.00 debit (fuel)",
		"Let me know if you need more detail.",
	}, "\n"))

	require.Len(t, res.Segments, 3)
	_, ok := res.Segments[0].(Text)
	assert.True(t, ok)
	row, ok := res.Segments[1].(TransactionRow)
	require.True(t, ok)
	assert.Equal(t, "fuel", row.Description)
	assert.InDelta(t, 850, row.Amount, 0.001)
	_, ok = res.Segments[2].(Text)
	assert.True(t, ok)
}

func TestBannerSegments(t *testing.T) {
	res := structure(t, strings.Join([]string{
		"Here is your statement summary.",
		">>> TOTALS: 12 payments R4,500.00 | 3 deposits R7,000.00 <<<",
		">>> BUDGET: R10,000.00 budgeted | R8,480.00 spent | R1,520.00 remaining <<<",
	}, "\n"))

	require.Len(t, res.Segments, 3)
	tb, ok := res.Segments[1].(TotalsBanner)
	require.True(t, ok)
	assert.Equal(t, 12, tb.PaymentsCount)
	ob, ok := res.Segments[2].(OverallBudgetBanner)
	require.True(t, ok)
	assert.InDelta(t, 1520, ob.Remaining, 0.001)
}

func TestBannerMarkersStrippedOnFailedMatch(t *testing.T) {
	res := structure(t, ">>> TOTALS: malformed beyond recognition <<<")

	require.Len(t, res.Segments, 1)
	text, ok := res.Segments[0].(Text)
	require.True(t, ok)
	assert.Equal(t, "TOTALS: malformed beyond recognition", text.Content)
	assert.NotContains(t, text.Content, "&gt;")
	assert.NotContains(t, text.Content, "&lt;")
}

func TestDecorationsApplied(t *testing.T) {
	st := New()
	st.Decor = Decorations{
		OverBudget:  func(p string) string { return "[" + p + "]" },
		PercentUsed: func(p string, percent int) string { return "{" + p + "}" },
		Remaining:   func(p string) string { return "(" + p + ")" },
		OverBy:      func(a string) string { return "<" + a + ">" },
	}

	res := st.Structure("You are OVER BUDGET, over budget by R480.00. 106% used. R1,520.00 remaining on groceries.", nil)

	require.Len(t, res.Segments, 1)
	content := res.Segments[0].(Text).Content
	assert.Contains(t, content, "[OVER BUDGET]")
	assert.Contains(t, content, "over budget by <R480.00>")
	assert.Contains(t, content, "{106% used}")
	assert.Contains(t, content, "(R1,520.00 remaining)")
}

func TestDecorationsAreDisplayOnly(t *testing.T) {
	// With identity decorations the prose is byte-identical to the escaped input.
	input := "You are OVER BUDGET by R480.00, 106% used."
	res := structure(t, input)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, input, res.Segments[0].(Text).Content)
}

func TestMixedDocumentOrdering(t *testing.T) {
	res := New().Structure(strings.Join([]string{
		"Here is the overview you asked for.",
		">>> TOTALS: 2 payments R365.50 | 1 deposits R1,000.00 <<<",
		"Recent purchases:",
		"- 2025-09-05: Coffee Shop - R45.00",
		"- 2025-09-06: Groceries - R320.50",
		"",
		"Anything else?",
	}, "\n"), nil)

	require.Len(t, res.Segments, 4)
	_, ok := res.Segments[0].(Text)
	assert.True(t, ok)
	_, ok = res.Segments[1].(TotalsBanner)
	assert.True(t, ok)
	_, ok = res.Segments[2].(TransactionTable)
	assert.True(t, ok)
	tail, ok := res.Segments[3].(Text)
	require.True(t, ok)
	assert.Contains(t, tail.Content, "Anything else?")
}

func TestStructurerIsTotal(t *testing.T) {
	// Hostile or degenerate inputs must never panic and never yield zero
	// segments unless the input itself is empty of content lines.
	inputs := []string{
		"",
		"\n\n\n",
		">>> <<<",
		":\n:",
		strings.Repeat("R1.00 | ", 500),
		"budget is spent ( % used)",
		"- 9999-99-99: ??? - R",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			New().Structure(in, nil)
		}, "input %q", in)
	}
}

func TestChartAttachedFromRelatedTransactions(t *testing.T) {
	txs := []protocol.Transaction{
		{Date: "2025-09-05", Amount: 100, TransactionType: "debit", Category: "groceries"},
		{Date: "2025-09-20", Amount: 50, TransactionType: "debit", Category: "fuel"},
		{Date: "2025-08-10", Amount: 75, TransactionType: "debit", Category: "groceries"},
	}

	res := New().Structure("Here you go.", txs)
	require.NotNil(t, res.Chart)
	require.Len(t, res.Chart.Months, 2)
	assert.Equal(t, "2025-09", res.Chart.Months[0].Label)
	assert.Equal(t, "2025-08", res.Chart.Months[1].Label)
}

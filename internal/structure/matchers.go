package structure

import (
	"regexp"
	"strconv"
	"strings"
)

// The matchers below are pure functions: each recognizes exactly one textual
// pattern and reports (result, true) or (zero, false). They never error and
// never panic; a miss simply falls through to the next matcher in the
// cascade. All of them run on already-escaped text, which is why the banner
// markers appear in their &gt;/&lt; form.

var (
	// "Your budget is R8,000.00 and you've spent R8,480.00 (106% used)"
	budgetDirectRe = regexp.MustCompile(`(?is)budget\s+is\s+(` + amountPat + `)\b.*?spent\s+(` + amountPat + `)\b.*?\((\d+)%\s*used\)`)

	// "You've spent R2,000.00 so far of your R3,000.00 budget" + a bare "67%"
	budgetSpentOfRe = regexp.MustCompile(`(?is)spent\s+(` + amountPat + `)\b.*?\bof\b.*?(` + amountPat + `)\s+budget`)
	barePercentRe   = regexp.MustCompile(`(\d+)\s*%`)

	// "2025-09-05: R45.00 debit (eating_out)"
	txLineRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}):\s*(` + amountPat + `)\s+(debit|credit)(?:\s*\(([^)]+)\))?$`)

	// ">>> TOTALS: 12 payments R4,500.00 | 3 deposits R7,000.00 <<<"
	totalsBannerRe = regexp.MustCompile(`(?i)^TOTALS:\s*(\d+)\s+payments\s+(` + amountPat + `)\s*\|\s*(\d+)\s+deposits\s+(` + amountPat + `)$`)

	// ">>> BUDGET: R10,000.00 budgeted | R8,480.00 spent | R1,520.00 remaining <<<"
	overallBannerRe = regexp.MustCompile(`(?i)^BUDGET:\s*(` + amountPat + `)\s+budgeted\s*\|\s*(` + amountPat + `)\s+spent\s*\|\s*(` + amountPat + `)\s+remaining$`)

	creditHeaderRe = regexp.MustCompile(`(?i)\b(received|deposits?|credits?)\b`)
)

// MatchBudgetInfo searches text for a budget summary using two templates
// tried in order; the first that fully matches wins. The search is
// independent of the rest of the cascade: the matched text stays in the prose
// flow and the widget is hoisted out for standalone rendering.
func MatchBudgetInfo(text string) (BudgetProgress, bool) {
	if m := budgetDirectRe.FindStringSubmatch(text); m != nil {
		budget, okB := ParseAmount(m[1])
		spent, okS := ParseAmount(m[2])
		percent, err := strconv.Atoi(m[3])
		if okB && okS && err == nil {
			return BudgetProgress{
				BudgetAmount: budget,
				SpentAmount:  spent,
				Percent:      percent,
				BudgetLabel:  m[1],
				SpentLabel:   m[2],
			}, true
		}
	}

	if m := budgetSpentOfRe.FindStringSubmatch(text); m != nil {
		spent, okS := ParseAmount(m[1])
		budget, okB := ParseAmount(m[2])
		pm := barePercentRe.FindStringSubmatch(text)
		if okS && okB && pm != nil {
			percent, err := strconv.Atoi(pm[1])
			if err == nil {
				return BudgetProgress{
					BudgetAmount: budget,
					SpentAmount:  spent,
					Percent:      percent,
					BudgetLabel:  m[2],
					SpentLabel:   m[1],
				}, true
			}
		}
	}

	return BudgetProgress{}, false
}

// MatchTransactionLine recognizes a standalone "[date]: [amount]
// (debit|credit) [(category)]" line. Direction comes from the token, never
// from the amount's sign.
func MatchTransactionLine(line string) (TransactionRow, bool) {
	m := txLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return TransactionRow{}, false
	}
	amount, ok := ParseAmount(m[2])
	if !ok {
		return TransactionRow{}, false
	}
	return TransactionRow{
		Date:        m[1],
		Description: m[4], // category, possibly empty
		Amount:      amount,
		IsCredit:    m[3] == "credit",
	}, true
}

// MatchTotalsBanner recognizes the payments/deposits totals banner body (the
// text between the >>> <<< markers, markers already stripped).
func MatchTotalsBanner(inner string) (TotalsBanner, bool) {
	m := totalsBannerRe.FindStringSubmatch(strings.TrimSpace(inner))
	if m == nil {
		return TotalsBanner{}, false
	}
	pc, err1 := strconv.Atoi(m[1])
	pt, ok1 := ParseAmount(m[2])
	dc, err2 := strconv.Atoi(m[3])
	dt, ok2 := ParseAmount(m[4])
	if err1 != nil || err2 != nil || !ok1 || !ok2 {
		return TotalsBanner{}, false
	}
	return TotalsBanner{
		PaymentsCount: pc,
		PaymentsTotal: pt,
		DepositsCount: dc,
		DepositsTotal: dt,
	}, true
}

// MatchOverallBudgetBanner recognizes the overall budget totals banner body.
func MatchOverallBudgetBanner(inner string) (OverallBudgetBanner, bool) {
	m := overallBannerRe.FindStringSubmatch(strings.TrimSpace(inner))
	if m == nil {
		return OverallBudgetBanner{}, false
	}
	budgeted, ok1 := ParseAmount(m[1])
	spent, ok2 := ParseAmount(m[2])
	remaining, ok3 := ParseAmount(m[3])
	if !ok1 || !ok2 || !ok3 {
		return OverallBudgetBanner{}, false
	}
	return OverallBudgetBanner{Budgeted: budgeted, Spent: spent, Remaining: remaining}, true
}

// ---------------------------------------------------------------------------
// List-block row matchers
// ---------------------------------------------------------------------------

// rowMatch is one recognized list row. explicitType is true when the line
// carried its own debit/credit token, which overrides the block convention.
type rowMatch struct {
	row          TransactionRow
	explicitType bool
}

// listRowMatcher attempts to recognize one list-row shape.
type listRowMatcher func(line string) (rowMatch, bool)

var (
	// "- 2025-09-05: Coffee Shop - R45.00"
	bulletRowRe = regexp.MustCompile(`^[-*\x{2022}]\s+(\d{4}-\d{2}-\d{2}):\s*(.+?)\s*[-\x{2013}]\s*(` + amountPat + `)$`)

	// "2025-09-05  Coffee Shop  -R45.00"
	columnRowRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[\t ]+(.+?)[\t ]+([+-]?` + amountPat + `)$`)

	// "2025-09: Coffee Shop - R320.50"
	monthRowRe = regexp.MustCompile(`^(\d{4}-\d{2}):\s*(.+?)\s*[-\x{2013}]\s*(` + amountPat + `)$`)

	// "Coffee Shop | R45.00"
	pipeRowRe = regexp.MustCompile(`^(.+?)\s*\|\s*[+-]?(` + amountPat + `)$`)

	// "R45.00 (2025-09-05) Coffee Shop"
	amountFirstRowRe = regexp.MustCompile(`^(` + amountPat + `)\s*\((\d{4}-\d{2}-\d{2})\)\s*[-\x{2013}:]?\s*(.*)$`)
)

// listRowMatchers is the fixed cascade for list-block rows. Source order is
// the priority order: the first matcher to accept a line decides its
// rendering.
var listRowMatchers = []listRowMatcher{
	matchBulletRow,
	matchTypedRow,
	matchColumnRow,
	matchMonthRow,
	matchPipeRow,
	matchAmountFirstRow,
}

func matchBulletRow(line string) (rowMatch, bool) {
	m := bulletRowRe.FindStringSubmatch(line)
	if m == nil {
		return rowMatch{}, false
	}
	amount, ok := ParseAmount(m[3])
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: TransactionRow{Date: m[1], Description: m[2], Amount: amount}}, true
}

func matchTypedRow(line string) (rowMatch, bool) {
	row, ok := MatchTransactionLine(line)
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: row, explicitType: true}, true
}

func matchColumnRow(line string) (rowMatch, bool) {
	m := columnRowRe.FindStringSubmatch(line)
	if m == nil {
		return rowMatch{}, false
	}
	amount, ok := ParseAmount(strings.TrimLeft(m[3], "+-"))
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: TransactionRow{Date: m[1], Description: m[2], Amount: amount}}, true
}

func matchMonthRow(line string) (rowMatch, bool) {
	m := monthRowRe.FindStringSubmatch(line)
	if m == nil {
		return rowMatch{}, false
	}
	amount, ok := ParseAmount(m[3])
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: TransactionRow{Date: m[1], Description: m[2], Amount: amount}}, true
}

func matchPipeRow(line string) (rowMatch, bool) {
	m := pipeRowRe.FindStringSubmatch(line)
	if m == nil {
		return rowMatch{}, false
	}
	amount, ok := ParseAmount(m[2])
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: TransactionRow{Description: m[1], Amount: amount}}, true
}

func matchAmountFirstRow(line string) (rowMatch, bool) {
	m := amountFirstRowRe.FindStringSubmatch(line)
	if m == nil {
		return rowMatch{}, false
	}
	amount, ok := ParseAmount(m[1])
	if !ok {
		return rowMatch{}, false
	}
	return rowMatch{row: TransactionRow{Date: m[2], Description: m[3], Amount: amount}}, true
}

// matchListRow runs the cascade over one line inside a list block. A line no
// matcher accepts is kept as an unstructured single cell if it still carries
// an amount, and dropped otherwise.
func matchListRow(line string) (rowMatch, bool) {
	trimmed := strings.TrimSpace(line)
	for _, match := range listRowMatchers {
		if rm, ok := match(trimmed); ok {
			return rm, true
		}
	}
	if ContainsAmount(trimmed) {
		return rowMatch{row: TransactionRow{Raw: trimmed}}, true
	}
	return rowMatch{}, false
}

// isListHeader reports whether a trimmed line introduces a list block.
func isListHeader(trimmed string) bool {
	return len(trimmed) > 1 && strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, bannerOpen)
}

// headerWantsCredit decides the block-wide sign convention from the header
// wording: mentions of received/deposit/credit style the block as credits,
// everything else as debits.
func headerWantsCredit(header string) bool {
	return creditHeaderRe.MatchString(header)
}

// Package structure turns the free-form text a language model returns into
// typed, renderable segments: plain prose, budget progress widgets,
// transaction tables, summary banners and monthly spending charts. The
// extraction is a fixed-order cascade of pure matchers; any text nothing
// claims falls through as prose, so structuring is total over arbitrary
// input.
package structure

// Segment is one typed unit of a structured response. The concrete types
// below form a closed set.
type Segment interface {
	segment()
}

// Text is literal prose. The content is HTML-escaped (&, <, >) because the
// raw model output may contain markup-significant characters.
type Text struct {
	Content string
}

// BudgetProgress is the budget widget extracted from a budget summary
// sentence. Percent is stored unclamped; rendering clamps the visual bar at
// 100 but keeps the number as-is.
type BudgetProgress struct {
	BudgetAmount float64
	SpentAmount  float64
	Percent      int
	BudgetLabel  string
	SpentLabel   string
}

// BudgetLevel classifies a percent value for display.
type BudgetLevel int

const (
	BudgetOK BudgetLevel = iota
	BudgetWarning
	BudgetOver
)

// Level applies the display thresholds: >=100 over budget, >=80 warning.
func (b BudgetProgress) Level() BudgetLevel {
	return LevelForPercent(b.Percent)
}

// LevelForPercent maps a percent-used value to its display level.
func LevelForPercent(percent int) BudgetLevel {
	switch {
	case percent >= 100:
		return BudgetOver
	case percent >= 80:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// TransactionRow is one recognized transaction line. Amount is always a
// positive display magnitude; the direction is carried in IsCredit. When a
// line inside a list block matches no structured sub-pattern but still
// contains an amount, it is kept as a single unstructured cell in Raw and the
// other fields are empty.
type TransactionRow struct {
	Date        string
	Description string
	Amount      float64
	IsCredit    bool
	Raw         string
}

// Unstructured reports whether the row is a single free-form cell.
func (r TransactionRow) Unstructured() bool { return r.Raw != "" }

// TransactionTable is a list block: a header line plus its recognized rows.
type TransactionTable struct {
	Header string
	Rows   []TransactionRow
}

// TotalsBanner is the payments/deposits summary the backend embeds between
// >>> and <<< markers.
type TotalsBanner struct {
	PaymentsCount int
	PaymentsTotal float64
	DepositsCount int
	DepositsTotal float64
}

// OverallBudgetBanner is the overall budget summary banner.
type OverallBudgetBanner struct {
	Budgeted  float64
	Spent     float64
	Remaining float64
}

// MonthTotal is one bar of the monthly spending chart.
type MonthTotal struct {
	Label string // YYYY-MM
	Total float64
}

// MonthlySpendingChart summarizes debit spending per month, most recent
// first, derived from the transactions attached to a response rather than
// from the text.
type MonthlySpendingChart struct {
	Months []MonthTotal
}

func (Text) segment()                 {}
func (BudgetProgress) segment()       {}
func (TransactionRow) segment()       {}
func (TransactionTable) segment()     {}
func (TotalsBanner) segment()         {}
func (OverallBudgetBanner) segment()  {}
func (MonthlySpendingChart) segment() {}

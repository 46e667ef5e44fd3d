package structure

import (
	"regexp"
	"strconv"
	"strings"

	"finchat/internal/protocol"
)

// Escaped banner markers. Escaping runs before any matching, so the literal
// >>> and <<< the backend emits arrive here in entity form.
const (
	bannerOpen  = "&gt;&gt;&gt;"
	bannerClose = "&lt;&lt;&lt;"
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes the three markup-significant characters. It must run
// before any markup-producing step so model output can never inject markup of
// its own.
func escapeHTML(s string) string {
	return escaper.Replace(s)
}

// Decorations are the phrase-level presentation transforms applied to prose
// (the "terminal coloring" step). Each function receives the matched phrase
// and returns its styled replacement; nil means identity. They are
// presentation-only: they never add or remove segments.
type Decorations struct {
	// OverBudget styles the literal phrase "OVER BUDGET".
	OverBudget func(phrase string) string
	// PercentUsed styles an "N% used" phrase; percent carries the parsed N
	// so the style can apply the usual thresholds.
	PercentUsed func(phrase string, percent int) string
	// Remaining styles an "R... remaining" phrase.
	Remaining func(phrase string) string
	// OverBy styles the amount in "over budget by R...".
	OverBy func(amount string) string
}

var (
	overBudgetByRe = regexp.MustCompile(`(?i)(over budget\s+by\s+)(` + amountPat + `)`)
	overBudgetRe   = regexp.MustCompile(`OVER BUDGET`)
	percentUsedRe  = regexp.MustCompile(`(\d+)% used`)
	remainingRe    = regexp.MustCompile(`(` + amountPat + `) remaining`)
)

func (d Decorations) apply(s string) string {
	if d.OverBy != nil {
		s = overBudgetByRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := overBudgetByRe.FindStringSubmatch(m)
			return sub[1] + d.OverBy(sub[2])
		})
	}
	if d.OverBudget != nil {
		s = overBudgetRe.ReplaceAllStringFunc(s, d.OverBudget)
	}
	if d.PercentUsed != nil {
		s = percentUsedRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := percentUsedRe.FindStringSubmatch(m)
			percent, err := strconv.Atoi(sub[1])
			if err != nil {
				return m
			}
			return d.PercentUsed(m, percent)
		})
	}
	if d.Remaining != nil {
		s = remainingRe.ReplaceAllStringFunc(s, d.Remaining)
	}
	return s
}

// Result is the output of structuring one response: the ordered segment flow
// plus the widgets hoisted out of it for standalone rendering.
type Result struct {
	Segments []Segment
	Budget   *BudgetProgress
	Chart    *MonthlySpendingChart
}

// Structurer runs the fixed matcher cascade over backend response text.
// The zero value is usable; Decor customizes prose coloring.
type Structurer struct {
	Decor Decorations
}

// New returns a Structurer with identity decorations.
func New() *Structurer {
	return &Structurer{}
}

// Structure converts one response into typed segments. The pipeline order is
// fixed: escape, hoist the budget widget, then walk the text line by line
// claiming banners, standalone transaction lines and list blocks; everything
// unclaimed flows through as decorated prose. It is total: arbitrary input
// yields at worst a single Text segment, never an error.
func (st *Structurer) Structure(text string, related []protocol.Transaction) Result {
	escaped := escapeHTML(text)

	var res Result
	if bp, ok := MatchBudgetInfo(escaped); ok {
		res.Budget = &bp
	}
	if chart, ok := DeriveMonthlySpending(related); ok {
		res.Chart = &chart
	}

	lines := strings.Split(escaped, "\n")
	var segs []Segment
	var prose []string

	flush := func() {
		if len(prose) == 0 {
			return
		}
		segs = append(segs, Text{Content: st.Decor.apply(strings.Join(prose, "\n"))})
		prose = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Banner lines. The markers are stripped even when the inner pattern
		// fails, so formatting artifacts never leak into the display verbatim.
		if strings.Contains(trimmed, bannerOpen) && strings.Contains(trimmed, bannerClose) {
			inner := bannerInner(trimmed)
			if tb, ok := MatchTotalsBanner(inner); ok {
				flush()
				segs = append(segs, tb)
				continue
			}
			if ob, ok := MatchOverallBudgetBanner(inner); ok {
				flush()
				segs = append(segs, ob)
				continue
			}
			if inner != "" {
				prose = append(prose, inner)
			}
			continue
		}

		// Standalone transaction line, replaced inline.
		if row, ok := MatchTransactionLine(trimmed); ok {
			flush()
			segs = append(segs, row)
			continue
		}

		// List block: header line ending in ":" followed by at least one
		// recognizable row. The block consumes the consecutive non-blank run.
		if isListHeader(trimmed) && i+1 < len(lines) {
			rows, consumed := collectListRows(lines[i+1:], headerWantsCredit(trimmed))
			if len(rows) > 0 {
				flush()
				segs = append(segs, TransactionTable{
					Header: strings.TrimSuffix(trimmed, ":"),
					Rows:   rows,
				})
				i += consumed
				continue
			}
		}

		prose = append(prose, line)
	}
	flush()

	res.Segments = segs
	return res
}

// bannerInner returns the trimmed text between the banner markers.
func bannerInner(line string) string {
	open := strings.Index(line, bannerOpen)
	close := strings.Index(line, bannerClose)
	if open < 0 || close < 0 || close < open {
		// Strip whichever markers are present.
		line = strings.ReplaceAll(line, bannerOpen, "")
		line = strings.ReplaceAll(line, bannerClose, "")
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[open+len(bannerOpen) : close])
}

// collectListRows walks the consecutive non-blank lines after a list header,
// running the row cascade over each. Rows without their own debit/credit
// token take the block-wide convention. Lines with no amount are dropped
// silently. Returns the rows and how many input lines were consumed.
func collectListRows(lines []string, credit bool) ([]TransactionRow, int) {
	var rows []TransactionRow
	consumed := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}
		consumed++
		rm, ok := matchListRow(line)
		if !ok {
			continue
		}
		if !rm.explicitType && !rm.row.Unstructured() {
			rm.row.IsCredit = credit
		}
		rows = append(rows, rm.row)
	}
	if len(rows) == 0 {
		return nil, 0
	}
	return rows, consumed
}

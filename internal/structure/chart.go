package structure

import (
	"sort"
	"strings"

	"finchat/internal/protocol"
)

// Chart derivation thresholds: anything thinner than this renders as a
// misleading one-bar chart, so the segment is omitted instead.
const (
	chartMinTransactions = 3
	chartMinMonths       = 2
	chartMaxMonths       = 12
)

// feeCategory is excluded from spending charts; bank fees are noise next to
// discretionary spending.
const feeCategory = "fees"

// DeriveMonthlySpending aggregates the debit, non-fee transactions attached
// to a response into per-month totals, most recent month first, capped at
// twelve months. Returns false when the data is too thin to chart.
func DeriveMonthlySpending(txs []protocol.Transaction) (MonthlySpendingChart, bool) {
	totals := make(map[string]float64)
	qualifying := 0

	for _, tx := range txs {
		if tx.TransactionType != "debit" {
			continue
		}
		if strings.EqualFold(tx.Category, feeCategory) {
			continue
		}
		if len(tx.Date) < 7 {
			continue
		}
		totals[tx.Date[:7]] += tx.Amount
		qualifying++
	}

	if qualifying < chartMinTransactions || len(totals) < chartMinMonths {
		return MonthlySpendingChart{}, false
	}

	months := make([]MonthTotal, 0, len(totals))
	for label, total := range totals {
		months = append(months, MonthTotal{Label: label, Total: total})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Label > months[j].Label
	})
	if len(months) > chartMaxMonths {
		months = months[:chartMaxMonths]
	}

	return MonthlySpendingChart{Months: months}, true
}

package structure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finchat/internal/protocol"
)

func debit(date string, amount float64, category string) protocol.Transaction {
	return protocol.Transaction{
		Date:            date,
		Amount:          amount,
		TransactionType: "debit",
		Category:        category,
	}
}

func TestDeriveMonthlySpendingTwoMonths(t *testing.T) {
	chart, ok := DeriveMonthlySpending([]protocol.Transaction{
		debit("2025-09-05", 100, "groceries"),
		debit("2025-09-20", 50, "fuel"),
		debit("2025-08-10", 75, "groceries"),
	})

	require.True(t, ok)
	require.Len(t, chart.Months, 2)
	assert.Equal(t, "2025-09", chart.Months[0].Label, "most recent month first")
	assert.InDelta(t, 150, chart.Months[0].Total, 0.001)
	assert.Equal(t, "2025-08", chart.Months[1].Label)
	assert.InDelta(t, 75, chart.Months[1].Total, 0.001)
}

func TestDeriveMonthlySpendingSingleMonthOmitted(t *testing.T) {
	_, ok := DeriveMonthlySpending([]protocol.Transaction{
		debit("2025-09-05", 100, "groceries"),
		debit("2025-09-12", 50, "fuel"),
		debit("2025-09-20", 75, "groceries"),
	})
	assert.False(t, ok, "one distinct month is not chartable")
}

func TestDeriveMonthlySpendingTooFewTransactions(t *testing.T) {
	_, ok := DeriveMonthlySpending([]protocol.Transaction{
		debit("2025-09-05", 100, "groceries"),
		debit("2025-08-10", 75, "groceries"),
	})
	assert.False(t, ok)
}

func TestDeriveMonthlySpendingFiltersCreditsAndFees(t *testing.T) {
	txs := []protocol.Transaction{
		debit("2025-09-05", 100, "groceries"),
		debit("2025-09-20", 60, "fees"), // fee category excluded
		debit("2025-08-10", 75, "fuel"),
		debit("2025-08-11", 25, "Fees"), // case-insensitive
		{Date: "2025-08-15", Amount: 9999, TransactionType: "credit", Category: "salary"},
		debit("2025-07-01", 10, "groceries"),
	}

	chart, ok := DeriveMonthlySpending(txs)
	require.True(t, ok)
	require.Len(t, chart.Months, 3)
	assert.InDelta(t, 100, chart.Months[0].Total, 0.001)
	assert.InDelta(t, 75, chart.Months[1].Total, 0.001)
	assert.InDelta(t, 10, chart.Months[2].Total, 0.001)
}

func TestDeriveMonthlySpendingCapsAtTwelveMonths(t *testing.T) {
	var txs []protocol.Transaction
	for m := 1; m <= 14; m++ {
		date := fmt.Sprintf("2024-%02d-15", (m-1)%12+1)
		if m > 12 {
			date = fmt.Sprintf("2025-%02d-15", m-12)
		}
		txs = append(txs, debit(date, float64(m), "groceries"))
	}

	chart, ok := DeriveMonthlySpending(txs)
	require.True(t, ok)
	assert.Len(t, chart.Months, 12)
	assert.Equal(t, "2025-02", chart.Months[0].Label)
}

func TestDeriveMonthlySpendingMalformedDates(t *testing.T) {
	_, ok := DeriveMonthlySpending([]protocol.Transaction{
		debit("bad", 100, "groceries"),
		debit("", 50, "fuel"),
		debit("2025", 75, "groceries"),
	})
	assert.False(t, ok)
}

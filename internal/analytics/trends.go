package analytics

import (
	"time"

	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TrendPercent returns the percentage change from previous to current, rounded to two
// places. A zero previous value yields 100 when current is positive and 0 otherwise.
// The divisor keeps its sign: TrendPercent(-30, -60) is -50.
func TrendPercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred).Round(2)
	f, _ := pct.Float64()
	return f
}

// metric extracts the compared quantity from a window of transactions.
type metric func(transactions []models.Transaction) decimal.Decimal

func netFlow(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

func incomeOf(transactions []models.Transaction) decimal.Decimal {
	return sumTotals(transactions).Income
}

func spendingOf(transactions []models.Transaction) decimal.Decimal {
	return sumTotals(transactions).Spending
}

// savingsRate is net savings as a percentage of income; zero without income.
func savingsRate(transactions []models.Transaction) decimal.Decimal {
	totals := sumTotals(transactions)
	if !totals.Income.IsPositive() {
		return decimal.Zero
	}
	return totals.Net().Div(totals.Income).Mul(hundred)
}

// PreviousWindowTransactions returns the transactions in the window that immediately
// precedes the current window of r.
func (e *Engine) PreviousWindowTransactions(transactions []models.Transaction, r timewindow.Range) []models.Transaction {
	return timewindow.Previous(e.restrict(transactions), r, e.current())
}

// CalculateNetWorthTrend compares the net flow of the current window with the
// previous one.
func (e *Engine) CalculateNetWorthTrend(transactions []models.Transaction, r timewindow.Range) float64 {
	return e.trend(opNetWorthTrend, netFlow, e.restrict(transactions), r, e.current())
}

// CalculateIncomeTrend compares income of the current window with the previous one.
func (e *Engine) CalculateIncomeTrend(transactions []models.Transaction, r timewindow.Range) float64 {
	return e.trend(opIncomeTrend, incomeOf, e.restrict(transactions), r, e.current())
}

// CalculateSpendingTrend compares spending of the current window with the previous one.
func (e *Engine) CalculateSpendingTrend(transactions []models.Transaction, r timewindow.Range) float64 {
	return e.trend(opSpendingTrend, spendingOf, e.restrict(transactions), r, e.current())
}

// CalculateSavingsTrend compares the savings rate of the current window with the
// previous one.
func (e *Engine) CalculateSavingsTrend(transactions []models.Transaction, r timewindow.Range) float64 {
	return e.trend(opSavingsTrend, savingsRate, e.restrict(transactions), r, e.current())
}

// trend runs over the full (unfiltered) ledger: it derives the current and previous
// windows itself.
func (e *Engine) trend(op string, m metric, ledger []models.Transaction, r timewindow.Range, now time.Time) float64 {
	return memoizeAt(e, op, now, r, ledger, func() float64 {
		current := timewindow.Filter(ledger, r, now)
		previous := timewindow.Previous(ledger, r, now)
		return TrendPercent(m(current), m(previous))
	})
}

func (e *Engine) trendSummary(ledger []models.Transaction, r timewindow.Range, now time.Time) models.TrendSummary {
	return models.TrendSummary{
		NetWorth: e.trend(opNetWorthTrend, netFlow, ledger, r, now),
		Income:   e.trend(opIncomeTrend, incomeOf, ledger, r, now),
		Spending: e.trend(opSpendingTrend, spendingOf, ledger, r, now),
		Savings:  e.trend(opSavingsTrend, savingsRate, ledger, r, now),
	}
}

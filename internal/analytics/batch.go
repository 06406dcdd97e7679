package analytics

import (
	"time"

	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"
)

// CalculateAllAnalytics filters the ledger once for r and derives every aggregate from
// that single snapshot. Trends are computed against the unfiltered ledger, and net
// worth over the unfiltered ledger plus account balances.
func (e *Engine) CalculateAllAnalytics(transactions []models.Transaction, accounts []models.Account, r timewindow.Range) models.AllAnalytics {
	started := time.Now()
	now := e.current()
	ledger := e.restrict(transactions)
	filtered := e.filter(ledger, r, now)

	result := models.AllAnalytics{
		Range:                    r.String(),
		GeneratedAt:              now,
		Quick:                    e.quickAnalytics(filtered, r),
		SpendingByCategory:       e.spendingByCategory(filtered, r),
		IncomeVsSpending:         e.incomeVsSpending(filtered, r),
		MonthlySpending:          e.monthlySpending(filtered, r),
		SpendingTrends:           e.spendingTrends(filtered, r, now),
		SpendingTrendsByCategory: e.spendingTrendsByCategory(filtered, r, now),
		TopCategories:            e.topCategories(filtered, r, e.topLimit),
		AverageDailySpending:     e.averageDailySpending(filtered, r, now),
		NetWorth:                 e.netWorth(ledger, e.restrictAccounts(accounts)),
		Trends:                   e.trendSummary(ledger, r, now),
	}

	e.logger.Debug("Computed all analytics",
		logging.F(logging.FieldRange, r.String()),
		logging.F(logging.FieldScope, e.ScopeID()),
		logging.F(logging.FieldCount, len(filtered)),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))

	return result
}

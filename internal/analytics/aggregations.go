package analytics

import (
	"sort"
	"time"

	"fjacquet/ledger-analytics/internal/dateutils"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/shopspring/decimal"
)

// CalculateSpendingByCategory sums spending magnitudes per category, sorted
// descending by amount.
func (e *Engine) CalculateSpendingByCategory(transactions []models.Transaction) []models.CategorySpending {
	return e.spendingByCategory(e.restrict(transactions), timewindow.All)
}

func (e *Engine) spendingByCategory(transactions []models.Transaction, r timewindow.Range) []models.CategorySpending {
	return memoize(e, opSpendingByCategory, r, transactions, func() []models.CategorySpending {
		return e.categoryBreakdown(transactions)
	})
}

func (e *Engine) categoryBreakdown(transactions []models.Transaction) []models.CategorySpending {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsSpending() {
			continue
		}
		category := tx.EffectiveCategory()
		sums[category] = sums[category].Add(tx.Amount.Abs())
	}

	out := make([]models.CategorySpending, 0, len(sums))
	for category, amount := range sums {
		out = append(out, models.CategorySpending{
			Category: category,
			Amount:   models.RoundMoney(amount),
			Color:    e.colors.ColorFor(category),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CalculateIncomeVsSpending totals inflows and outflows of the snapshot.
func (e *Engine) CalculateIncomeVsSpending(transactions []models.Transaction) models.IncomeVsSpending {
	return e.incomeVsSpending(e.restrict(transactions), timewindow.All)
}

func (e *Engine) incomeVsSpending(transactions []models.Transaction, r timewindow.Range) models.IncomeVsSpending {
	return memoize(e, opIncomeVsSpending, r, transactions, func() models.IncomeVsSpending {
		totals := sumTotals(transactions)
		income := models.RoundMoney(totals.Income)
		spending := models.RoundMoney(totals.Spending)
		return models.IncomeVsSpending{
			Income:   income,
			Spending: spending,
			Net:      models.RoundMoney(totals.Net()),
			Chart: []models.ChartPoint{
				{Name: "Income", Value: income},
				{Name: "Spending", Value: spending},
			},
		}
	})
}

// CalculateMonthlySpending groups the snapshot by calendar month, ascending by month.
// Transactions without a usable date are skipped.
func (e *Engine) CalculateMonthlySpending(transactions []models.Transaction) []models.MonthlySpending {
	return e.monthlySpending(e.restrict(transactions), timewindow.All)
}

func (e *Engine) monthlySpending(transactions []models.Transaction, r timewindow.Range) []models.MonthlySpending {
	return memoize(e, opMonthlySpending, r, transactions, func() []models.MonthlySpending {
		type bucket struct {
			income, spending, net decimal.Decimal
		}
		buckets := make(map[string]*bucket)
		for _, tx := range transactions {
			when, ok := tx.WhenIn(e.loc)
			if !ok {
				continue
			}
			key := dateutils.MonthKey(when, e.loc)
			b, exists := buckets[key]
			if !exists {
				b = &bucket{}
				buckets[key] = b
			}
			switch {
			case tx.IsIncome():
				b.income = b.income.Add(tx.Amount)
			case tx.IsSpending():
				b.spending = b.spending.Add(tx.Amount.Abs())
			}
			b.net = b.net.Add(tx.Amount)
		}

		out := make([]models.MonthlySpending, 0, len(buckets))
		for month, b := range buckets {
			out = append(out, models.MonthlySpending{
				Month:    month,
				Spending: models.RoundMoney(b.spending),
				Income:   models.RoundMoney(b.income),
				Net:      models.RoundMoney(b.net),
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
		return out
	})
}

// CalculateQuickAnalytics summarizes an already filtered snapshot.
func (e *Engine) CalculateQuickAnalytics(transactions []models.Transaction) models.QuickAnalytics {
	return e.quickAnalytics(e.restrict(transactions), timewindow.All)
}

func (e *Engine) quickAnalytics(transactions []models.Transaction, r timewindow.Range) models.QuickAnalytics {
	return memoize(e, opQuickAnalytics, r, transactions, func() models.QuickAnalytics {
		totals := sumTotals(transactions)
		return models.QuickAnalytics{
			TransactionCount: totals.Count,
			Income:           models.RoundMoney(totals.Income),
			Spending:         models.RoundMoney(totals.Spending),
			NetSavings:       models.RoundMoney(totals.Net()),
		}
	})
}

// GetTopSpendingCategories filters by r and returns the largest limit categories.
// A non-positive limit selects the engine default.
func (e *Engine) GetTopSpendingCategories(transactions []models.Transaction, r timewindow.Range, limit int) []models.CategorySpending {
	filtered := e.filter(e.restrict(transactions), r, e.current())
	return e.topCategories(filtered, r, limit)
}

func (e *Engine) topCategories(filtered []models.Transaction, r timewindow.Range, limit int) []models.CategorySpending {
	if limit <= 0 {
		limit = e.topLimit
	}
	breakdown := e.spendingByCategory(filtered, r)
	if len(breakdown) > limit {
		breakdown = breakdown[:limit]
	}
	return append([]models.CategorySpending(nil), breakdown...)
}

// CalculateAverageDailySpending divides the spending inside the window of r by the
// window length in days. For All the window starts at the earliest dated
// transaction. Returns zero when the window has no length.
func (e *Engine) CalculateAverageDailySpending(transactions []models.Transaction, r timewindow.Range) decimal.Decimal {
	now := e.current()
	filtered := e.filter(e.restrict(transactions), r, now)
	return e.averageDailySpending(filtered, r, now)
}

func (e *Engine) averageDailySpending(filtered []models.Transaction, r timewindow.Range, now time.Time) decimal.Decimal {
	return memoizeAt(e, opAverageDailySpending, now, r, filtered, func() decimal.Decimal {
		days := e.windowDays(filtered, r, now)
		if days == 0 {
			return decimal.Zero
		}
		total := sumTotals(filtered).Spending
		return models.RoundMoney(total.Div(decimal.NewFromInt(int64(days))))
	})
}

func (e *Engine) windowDays(filtered []models.Transaction, r timewindow.Range, now time.Time) int {
	if w, ok := r.Window(now); ok {
		return dateutils.CeilDays(now.Sub(w.Start))
	}
	var earliest time.Time
	for _, tx := range filtered {
		when, ok := tx.WhenIn(e.loc)
		if !ok {
			continue
		}
		if earliest.IsZero() || when.Before(earliest) {
			earliest = when
		}
	}
	if earliest.IsZero() {
		return 0
	}
	return dateutils.CeilDays(now.Sub(earliest))
}

// CalculateNetWorth sums every transaction amount (unfiltered, all time) and every
// account balance as stored. Account types carry no sign transform.
func (e *Engine) CalculateNetWorth(transactions []models.Transaction, accounts []models.Account) decimal.Decimal {
	return e.netWorth(e.restrict(transactions), e.restrictAccounts(accounts))
}

func (e *Engine) netWorth(transactions []models.Transaction, accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}
	return models.RoundMoney(total)
}

func sumTotals(transactions []models.Transaction) models.Totals {
	var totals models.Totals
	for _, tx := range transactions {
		totals.Add(tx)
	}
	return totals
}

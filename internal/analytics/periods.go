package analytics

import (
	"fmt"
	"time"

	"fjacquet/ledger-analytics/internal/dateutils"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"
)

// defaultMonthlyPeriods is the number of monthly buckets for ranges without a
// dedicated layout.
const defaultMonthlyPeriods = 6

type period struct {
	label string
	start time.Time
	end   time.Time
	daily bool
}

// contains tests membership. Daily periods compare calendar days so a transaction is
// never split across a day boundary; other periods use the inclusive interval.
func (p period) contains(t time.Time, loc *time.Location) bool {
	if p.daily {
		return dateutils.SameDay(t, p.start, loc)
	}
	return dateutils.WithinInclusive(t, p.start, p.end)
}

// periodsFor returns the contiguous buckets covering the trailing window of r:
// week → 7 days, month → 4 weeks, quarter → 3 months, year → 12 months, otherwise
// 6 months. Buckets are ordered oldest first.
func periodsFor(r timewindow.Range, now time.Time, loc *time.Location) []period {
	now = now.In(loc)
	switch r {
	case timewindow.Week:
		return dailyPeriods(7, now, loc)
	case timewindow.Month:
		return weeklyPeriods(4, now, loc)
	case timewindow.Quarter:
		return monthlyPeriods(3, now, loc)
	case timewindow.Year:
		return monthlyPeriods(12, now, loc)
	default:
		return monthlyPeriods(defaultMonthlyPeriods, now, loc)
	}
}

func dailyPeriods(n int, now time.Time, loc *time.Location) []period {
	out := make([]period, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := dateutils.StartOfDay(now.AddDate(0, 0, -i), loc)
		out = append(out, period{
			label: day.Format("Mon Jan 2"),
			start: day,
			end:   dateutils.EndOfDay(day, loc),
			daily: true,
		})
	}
	return out
}

func weeklyPeriods(n int, now time.Time, loc *time.Location) []period {
	out := make([]period, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := dateutils.StartOfDay(now.AddDate(0, 0, -(7*i + 6)), loc)
		end := dateutils.EndOfDay(now.AddDate(0, 0, -7*i), loc)
		out = append(out, period{
			label: fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2")),
			start: start,
			end:   end,
		})
	}
	return out
}

func monthlyPeriods(n int, now time.Time, loc *time.Location) []period {
	current := dateutils.StartOfMonth(now, loc)
	out := make([]period, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		out = append(out, period{
			label: start.Format("Jan 2006"),
			start: start,
			end:   dateutils.EndOfMonth(start, loc),
		})
	}
	return out
}

// bucketize assigns every dated transaction to the period containing it.
func bucketize(transactions []models.Transaction, periods []period, loc *time.Location) [][]models.Transaction {
	buckets := make([][]models.Transaction, len(periods))
	for _, tx := range transactions {
		when, ok := tx.WhenIn(loc)
		if !ok {
			continue
		}
		for i, p := range periods {
			if p.contains(when, loc) {
				buckets[i] = append(buckets[i], tx)
				break
			}
		}
	}
	return buckets
}

// CalculateSpendingTrends returns spending, income and net per period bucket of r.
func (e *Engine) CalculateSpendingTrends(transactions []models.Transaction, r timewindow.Range) []models.PeriodTrend {
	return e.spendingTrends(e.restrict(transactions), r, e.current())
}

func (e *Engine) spendingTrends(transactions []models.Transaction, r timewindow.Range, now time.Time) []models.PeriodTrend {
	return memoizeAt(e, opSpendingTrends, now, r, transactions, func() []models.PeriodTrend {
		periods := periodsFor(r, now, e.loc)
		buckets := bucketize(transactions, periods, e.loc)

		out := make([]models.PeriodTrend, len(periods))
		for i, p := range periods {
			totals := sumTotals(buckets[i])
			out[i] = models.PeriodTrend{
				Period:   p.label,
				Start:    p.start,
				End:      p.end,
				Spending: models.RoundMoney(totals.Spending),
				Income:   models.RoundMoney(totals.Income),
				Net:      models.RoundMoney(totals.Net()),
			}
		}
		return out
	})
}

// CalculateSpendingTrendsByCategory breaks every period bucket of r down by category.
func (e *Engine) CalculateSpendingTrendsByCategory(transactions []models.Transaction, r timewindow.Range) []models.CategoryPeriodTrend {
	return e.spendingTrendsByCategory(e.restrict(transactions), r, e.current())
}

func (e *Engine) spendingTrendsByCategory(transactions []models.Transaction, r timewindow.Range, now time.Time) []models.CategoryPeriodTrend {
	return memoizeAt(e, opSpendingTrendsByCategory, now, r, transactions, func() []models.CategoryPeriodTrend {
		periods := periodsFor(r, now, e.loc)
		buckets := bucketize(transactions, periods, e.loc)

		out := make([]models.CategoryPeriodTrend, len(periods))
		for i, p := range periods {
			out[i] = models.CategoryPeriodTrend{
				Period:        p.label,
				Start:         p.start,
				End:           p.end,
				Categories:    e.categoryBreakdown(buckets[i]),
				TotalSpending: models.RoundMoney(sumTotals(buckets[i]).Spending),
			}
		}
		return out
	})
}

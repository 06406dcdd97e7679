package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpending is one row of a category breakdown.
type CategorySpending struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Color    string          `json:"color" yaml:"color"`
}

// ChartPoint is a named value ready for charting.
type ChartPoint struct {
	Name  string          `json:"name" yaml:"name"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// IncomeVsSpending compares inflows and outflows.
type IncomeVsSpending struct {
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Spending decimal.Decimal `json:"spending" yaml:"spending"`
	Net      decimal.Decimal `json:"net" yaml:"net"`
	Chart    []ChartPoint    `json:"chart" yaml:"chart"`
}

// MonthlySpending aggregates one calendar month (Month is YYYY-MM).
type MonthlySpending struct {
	Month    string          `json:"month" yaml:"month"`
	Spending decimal.Decimal `json:"spending" yaml:"spending"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Net      decimal.Decimal `json:"net" yaml:"net"`
}

// PeriodTrend aggregates one period bucket of a trend series.
type PeriodTrend struct {
	Period   string          `json:"period" yaml:"period"`
	Start    time.Time       `json:"start" yaml:"start"`
	End      time.Time       `json:"end" yaml:"end"`
	Spending decimal.Decimal `json:"spending" yaml:"spending"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Net      decimal.Decimal `json:"net" yaml:"net"`
}

// CategoryPeriodTrend breaks one period bucket down by category.
type CategoryPeriodTrend struct {
	Period        string             `json:"period" yaml:"period"`
	Start         time.Time          `json:"start" yaml:"start"`
	End           time.Time          `json:"end" yaml:"end"`
	Categories    []CategorySpending `json:"categories" yaml:"categories"`
	TotalSpending decimal.Decimal    `json:"total_spending" yaml:"total_spending"`
}

// QuickAnalytics summarizes a snapshot.
type QuickAnalytics struct {
	TransactionCount int             `json:"transaction_count" yaml:"transaction_count"`
	Income           decimal.Decimal `json:"income" yaml:"income"`
	Spending         decimal.Decimal `json:"spending" yaml:"spending"`
	NetSavings       decimal.Decimal `json:"net_savings" yaml:"net_savings"`
}

// TrendSummary holds period-over-period percentage changes.
type TrendSummary struct {
	NetWorth float64 `json:"net_worth" yaml:"net_worth"`
	Income   float64 `json:"income" yaml:"income"`
	Spending float64 `json:"spending" yaml:"spending"`
	Savings  float64 `json:"savings" yaml:"savings"`
}

// AllAnalytics bundles every aggregate computed for one range.
type AllAnalytics struct {
	Range                    string                `json:"range" yaml:"range"`
	GeneratedAt              time.Time             `json:"generated_at" yaml:"generated_at"`
	Quick                    QuickAnalytics        `json:"quick" yaml:"quick"`
	SpendingByCategory       []CategorySpending    `json:"spending_by_category" yaml:"spending_by_category"`
	IncomeVsSpending         IncomeVsSpending      `json:"income_vs_spending" yaml:"income_vs_spending"`
	MonthlySpending          []MonthlySpending     `json:"monthly_spending" yaml:"monthly_spending"`
	SpendingTrends           []PeriodTrend         `json:"spending_trends" yaml:"spending_trends"`
	SpendingTrendsByCategory []CategoryPeriodTrend `json:"spending_trends_by_category" yaml:"spending_trends_by_category"`
	TopCategories            []CategorySpending    `json:"top_categories" yaml:"top_categories"`
	AverageDailySpending     decimal.Decimal       `json:"average_daily_spending" yaml:"average_daily_spending"`
	NetWorth                 decimal.Decimal       `json:"net_worth" yaml:"net_worth"`
	Trends                   TrendSummary          `json:"trends" yaml:"trends"`
}

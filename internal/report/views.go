package report

import (
	"fjacquet/ledger-analytics/internal/models"

	"github.com/shopspring/decimal"
)

// TrendsReport is the output of the trends command.
type TrendsReport struct {
	Range      string                       `json:"range" yaml:"range"`
	Periods    []models.PeriodTrend         `json:"periods" yaml:"periods"`
	ByCategory []models.CategoryPeriodTrend `json:"by_category,omitempty" yaml:"by_category,omitempty"`
	Summary    models.TrendSummary          `json:"summary" yaml:"summary"`
}

// CategoriesReport is the output of the categories command.
type CategoriesReport struct {
	Range      string                    `json:"range" yaml:"range"`
	Categories []models.CategorySpending `json:"categories" yaml:"categories"`
	Top        []models.CategorySpending `json:"top" yaml:"top"`
	Colors     map[string]string         `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// NetWorthReport is the output of the networth command.
type NetWorthReport struct {
	Scope    string          `json:"scope" yaml:"scope"`
	NetWorth decimal.Decimal `json:"net_worth" yaml:"net_worth"`
	Accounts int             `json:"accounts" yaml:"accounts"`
	Trend    float64         `json:"trend" yaml:"trend"`
	Range    string          `json:"range" yaml:"range"`
}

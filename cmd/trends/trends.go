// Package trends implements the trends command.
package trends

import (
	"fjacquet/ledger-analytics/cmd/common"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/report"

	"github.com/spf13/cobra"
)

var byCategory bool

// Cmd represents the trends command
var Cmd = &cobra.Command{
	Use:   "trends",
	Short: "Show period buckets and period-over-period changes",
	Long: `Show spending, income and net per period bucket of the range (7 days for week,
4 weeks for month, 3/12/6 months otherwise) and the percentage change of net
flow, income, spending and savings rate against the previous window.

Example:
  ledger-analytics trends -t transactions.csv -r week --by-category`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Render(cmd, func(in *common.Input) any { return Build(in, byCategory) })
	},
}

func init() {
	Cmd.Flags().BoolVar(&byCategory, "by-category", false, "Break every period down by category")
}

// Build computes the trends view.
func Build(in *common.Input, withCategories bool) report.TrendsReport {
	e := in.Engine
	ledger := in.Snapshot.Transactions
	filtered := e.FilterByRange(ledger, in.Range)

	out := report.TrendsReport{
		Range:   in.Range.String(),
		Periods: e.CalculateSpendingTrends(filtered, in.Range),
		Summary: models.TrendSummary{
			NetWorth: e.CalculateNetWorthTrend(ledger, in.Range),
			Income:   e.CalculateIncomeTrend(ledger, in.Range),
			Spending: e.CalculateSpendingTrend(ledger, in.Range),
			Savings:  e.CalculateSavingsTrend(ledger, in.Range),
		},
	}
	if withCategories {
		out.ByCategory = e.CalculateSpendingTrendsByCategory(filtered, in.Range)
	}
	return out
}

// Package analyze implements the analyze command.
package analyze

import (
	"fjacquet/ledger-analytics/cmd/common"
	"fjacquet/ledger-analytics/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute every analytic for a range in one pass",
	Long: `Compute the quick summary, category breakdown, income vs spending, monthly totals,
period trends, top categories, average daily spending, net worth and trend
percentages for one time range.

Example:
  ledger-analytics analyze --snapshot ledger.yaml --range month --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Render(cmd, func(in *common.Input) any { return Build(in) })
	},
}

// Build computes the full analytics bundle.
func Build(in *common.Input) models.AllAnalytics {
	return in.Engine.CalculateAllAnalytics(in.Snapshot.Transactions, in.Snapshot.Accounts, in.Range)
}

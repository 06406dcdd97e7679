// Package categories implements the categories command.
package categories

import (
	"fjacquet/ledger-analytics/cmd/common"
	"fjacquet/ledger-analytics/internal/report"

	"github.com/spf13/cobra"
)

var limit int

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Show spending per category and the top spending categories",
	Long: `Show spending per category (largest first, with a stable chart color) and the
top spending categories for the range.

Example:
  ledger-analytics categories -t transactions.csv -r year --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Render(cmd, func(in *common.Input) any { return Build(in, limit) })
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of top categories (default from config)")
}

// Build computes the categories view. A non-positive limit uses the configured one.
func Build(in *common.Input, limit int) report.CategoriesReport {
	e := in.Engine
	out := report.CategoriesReport{
		Range:      in.Range.String(),
		Categories: e.CalculateSpendingByCategory(e.FilterByRange(in.Snapshot.Transactions, in.Range)),
		Top:        e.GetTopSpendingCategories(in.Snapshot.Transactions, in.Range, limit),
	}
	if in.Colors != nil {
		out.Colors = in.Colors.Assignments()
	}
	return out
}

// Package networth implements the networth command.
package networth

import (
	"fjacquet/ledger-analytics/cmd/common"
	"fjacquet/ledger-analytics/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the networth command
var Cmd = &cobra.Command{
	Use:   "networth",
	Short: "Show net worth and its trend",
	Long: `Show net worth (sum of account balances plus the net of all transactions) and
the change of net flow against the previous window of the range.

Example:
  ledger-analytics networth -t transactions.csv -a accounts.csv --account checking`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Render(cmd, func(in *common.Input) any { return Build(in) })
	},
}

// Build computes the net worth view.
func Build(in *common.Input) report.NetWorthReport {
	e := in.Engine
	return report.NetWorthReport{
		Scope:    e.ScopeID(),
		NetWorth: e.CalculateNetWorth(in.Snapshot.Transactions, in.Snapshot.Accounts),
		Accounts: len(e.Accounts(in.Snapshot.Accounts)),
		Trend:    e.CalculateNetWorthTrend(in.Snapshot.Transactions, in.Range),
		Range:    in.Range.String(),
	}
}

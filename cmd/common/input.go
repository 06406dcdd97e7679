// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"

	"fjacquet/ledger-analytics/cmd/root"
	"fjacquet/ledger-analytics/internal/analytics"
	"fjacquet/ledger-analytics/internal/colors"
	"fjacquet/ledger-analytics/internal/container"
	"fjacquet/ledger-analytics/internal/ledger"
	"fjacquet/ledger-analytics/internal/report"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/spf13/cobra"
)

// ErrNoInput is returned when neither flags nor config name a ledger file.
var ErrNoInput = errors.New("no ledger input: set --snapshot or --transactions, or data.* in the config file")

// Input is everything a command needs after flag resolution.
type Input struct {
	Snapshot *ledger.Snapshot
	Range    timewindow.Range
	Format   report.Format
	Engine   *analytics.Engine
	Colors   *colors.Assigner
}

// Files merges file flags over the configured data files.
func Files(c *container.Container, flags root.CommonFlags) ledger.Files {
	data := c.GetConfig().Data
	files := ledger.Files{
		Snapshot:     data.SnapshotFile,
		Transactions: data.TransactionsFile,
		Accounts:     data.AccountsFile,
	}
	if flags.Snapshot != "" {
		files.Snapshot = flags.Snapshot
	}
	if flags.Transactions != "" {
		files.Transactions = flags.Transactions
	}
	if flags.Accounts != "" {
		files.Accounts = flags.Accounts
	}
	return files
}

// Resolve loads the snapshot and parses range and format. An unknown range falls
// back to all with a warning; an unknown format is an error.
func Resolve(c *container.Container, flags root.CommonFlags) (*Input, error) {
	if c == nil {
		return nil, fmt.Errorf("container not initialized")
	}

	format, err := report.ParseFormat(flags.Format)
	if err != nil {
		return nil, err
	}

	r := c.GetConfig().DefaultRange()
	if flags.Range != "" {
		r = timewindow.ParseOrAll(flags.Range, c.GetLogger())
	}

	files := Files(c, flags)
	if files.Empty() {
		return nil, ErrNoInput
	}
	snap, err := c.GetLoader().Load(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &Input{
		Snapshot: snap,
		Range:    r,
		Format:   format,
		Engine:   c.GetEngine().Scope(flags.Account),
		Colors:   c.GetColors(),
	}, nil
}

// Render resolves the input from the root flags, builds the view and writes it to the
// command output.
func Render(cmd *cobra.Command, build func(in *Input) any) error {
	c := root.GetContainer()
	in, err := Resolve(c, root.SharedFlags)
	if err != nil {
		return err
	}
	return c.GetReporter().Write(cmd.OutOrStdout(), build(in), in.Format)
}

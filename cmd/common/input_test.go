package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-analytics/cmd/root"
	"fjacquet/ledger-analytics/internal/colors"
	"fjacquet/ledger-analytics/internal/config"
	"fjacquet/ledger-analytics/internal/container"
	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/report"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainer(t *testing.T, logger logging.Logger, data config.DataConfig) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:   config.LogConfig{Level: "info", Format: "text"},
		Cache: config.CacheConfig{TTLSeconds: 120, MaxEntries: 64},
		Analytics: config.AnalyticsConfig{
			Timezone:           "UTC",
			DefaultRange:       "quarter",
			TopCategoriesLimit: 5,
			Palette:            append([]string(nil), colors.DefaultPalette...),
		},
		Data: data,
	}
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const txCSV = "ID,Date,Amount,Category,AccountID\n1,2025-08-01,-150.00,Grocery,checking\n2,2025-08-02,900.00,Salary,savings\n"

func TestResolve(t *testing.T) {
	c := testContainer(t, logging.NewMockLogger(), config.DataConfig{})
	path := writeFile(t, "tx.csv", txCSV)

	in, err := Resolve(c, root.CommonFlags{Transactions: path, Format: "json", Range: "week", Account: "checking"})
	require.NoError(t, err)

	assert.Len(t, in.Snapshot.Transactions, 2)
	assert.Equal(t, timewindow.Week, in.Range)
	assert.Equal(t, report.FormatJSON, in.Format)
	assert.Equal(t, "checking", in.Engine.ScopeID())
	assert.Same(t, c.GetColors(), in.Colors)
}

func TestResolve_DefaultsFromConfig(t *testing.T) {
	path := writeFile(t, "tx.csv", txCSV)
	c := testContainer(t, logging.NewMockLogger(), config.DataConfig{TransactionsFile: path})

	in, err := Resolve(c, root.CommonFlags{Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, timewindow.Quarter, in.Range)
	assert.Len(t, in.Snapshot.Transactions, 2)
	assert.Equal(t, "all", in.Engine.ScopeID())
}

func TestResolve_UnknownRangeFailsOpen(t *testing.T) {
	logger := logging.NewMockLogger()
	c := testContainer(t, logger, config.DataConfig{})

	in, err := Resolve(c, root.CommonFlags{Transactions: writeFile(t, "tx.csv", txCSV), Format: "text", Range: "fortnight"})
	require.NoError(t, err)
	assert.Equal(t, timewindow.All, in.Range)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
}

func TestResolve_Errors(t *testing.T) {
	c := testContainer(t, logging.NewNopLogger(), config.DataConfig{})

	_, err := Resolve(nil, root.CommonFlags{})
	assert.Error(t, err)

	_, err = Resolve(c, root.CommonFlags{Format: "pdf", Transactions: "x.csv"})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, err = Resolve(c, root.CommonFlags{Format: "text"})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = Resolve(c, root.CommonFlags{Format: "text", Transactions: filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load ledger")
}

func TestFiles_FlagsOverrideConfig(t *testing.T) {
	c := testContainer(t, logging.NewNopLogger(), config.DataConfig{SnapshotFile: "snap.yaml", AccountsFile: "acc.csv"})

	files := Files(c, root.CommonFlags{Accounts: "other.csv"})
	assert.Equal(t, "snap.yaml", files.Snapshot)
	assert.Equal(t, "other.csv", files.Accounts)
	assert.Empty(t, files.Transactions)
}

func TestRender(t *testing.T) {
	c := testContainer(t, logging.NewNopLogger(), config.DataConfig{})
	root.SetContainer(c)
	t.Cleanup(func() { root.SetContainer(nil) })

	saved := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = saved })
	root.SharedFlags = root.CommonFlags{Transactions: writeFile(t, "tx.csv", txCSV), Format: "yaml", Range: "all"}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := Render(cmd, func(in *Input) any {
		return map[string]int{"count": len(in.Snapshot.Transactions)}
	})
	require.NoError(t, err)
	assert.Equal(t, "count: 2\n", out.String())
}

package analyze_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/ledger-analytics/cmd/analyze"
	"fjacquet/ledger-analytics/cmd/common"
	"fjacquet/ledger-analytics/cmd/root"
	"fjacquet/ledger-analytics/internal/analytics"
	"fjacquet/ledger-analytics/internal/ledger"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/timewindow"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "analyze", analyze.Cmd.Use)
	assert.NotNil(t, analyze.Cmd.RunE)
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC)
	engine := analytics.NewEngine(
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithLocation(time.UTC),
	)
	in := &common.Input{
		Snapshot: &ledger.Snapshot{
			Transactions: []models.Transaction{
				{ID: "1", Date: now.AddDate(0, 0, -2), Amount: decimal.NewFromInt(-150), Category: "Grocery", AccountID: "checking"},
				{ID: "2", Date: now.AddDate(0, 0, -1), Amount: decimal.NewFromInt(5000), Category: "Salary", AccountID: "checking"},
				{ID: "3", Date: now.AddDate(0, -2, 0), Amount: decimal.NewFromInt(-80), Category: "Gas", AccountID: "card"},
			},
			Accounts: []models.Account{
				{ID: "checking", Type: models.AccountChecking, Balance: decimal.NewFromInt(1000)},
				{ID: "card", Type: models.AccountCredit, Balance: decimal.NewFromInt(-300)},
			},
		},
		Range:  timewindow.Month,
		Engine: engine,
	}

	got := analyze.Build(in)
	assert.Equal(t, "month", got.Range)
	assert.Equal(t, 2, got.Quick.TransactionCount)
	assert.Equal(t, "5470.00", got.NetWorth.StringFixed(2))

	in.Engine = engine.Scope("card")
	scoped := analyze.Build(in)
	assert.Equal(t, 0, scoped.Quick.TransactionCount)
	assert.Equal(t, "-380.00", scoped.NetWorth.StringFixed(2))
}

func TestAnalyzeCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: error\nanalytics:\n  timezone: UTC\n"), 0o600))

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	txPath := filepath.Join(dir, "tx.csv")
	csv := "ID,Date,Amount,Category,AccountID\n" +
		"1," + yesterday + ",-40.00,Grocery,checking\n" +
		"2," + yesterday + ",1000.00,Salary,checking\n"
	require.NoError(t, os.WriteFile(txPath, []byte(csv), 0o600))

	saved := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = saved })

	root.Init()
	root.Cmd.AddCommand(analyze.Cmd)
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetArgs([]string{"analyze", "--config", configPath, "-t", txPath, "-r", "week", "-f", "json"})

	require.NoError(t, root.Cmd.Execute())

	var got models.AllAnalytics
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "week", got.Range)
	assert.Equal(t, 2, got.Quick.TransactionCount)
	assert.True(t, got.Quick.NetSavings.Equal(decimal.NewFromInt(960)))
	assert.Nil(t, root.GetContainer(), "post-run closes the container")
}

package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/ledger-analytics/internal/fingerprint"
	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const transactionsCSV = `ID,Date,Amount,Category,AccountID
1,2025-08-01,-150.00,Grocery,checking
2,2025-08-02,5000.00,Salary,checking
,2025-07-15,-45.00,Gas,checking
4,someday,-10.00,,savings
`

func TestLoadTransactions_CSV(t *testing.T) {
	logger := logging.NewMockLogger()
	loader := NewLoader(logger, WithLocation(time.UTC))

	txs, err := loader.LoadTransactions(writeFile(t, "tx.csv", transactionsCSV))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	assert.Equal(t, "1", txs[0].ID)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "-150.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, "Grocery", txs[0].Category)
	assert.Equal(t, "checking", txs[0].AccountID)

	assert.Len(t, txs[2].ID, 36, "id-less rows get a uuid")

	assert.True(t, txs[3].Date.IsZero())
	assert.Equal(t, "someday", txs[3].RawDate)
	assert.Equal(t, models.CategoryUncategorized, txs[3].EffectiveCategory())
	assert.True(t, logger.HasEntry("WARN", "Transactions without a parseable date are excluded from ranged analytics"))
}

func TestLoadTransactions_DatesKeepCalendarDayInLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	csv := "ID,Date,Amount,Category,AccountID\n1,2025-08-01,-150.00,Grocery,c\n2,2025-08-01T23:30:00Z,-5.00,Coffee,c\n"
	txs, err := NewLoader(nil, WithLocation(ny)).ReadTransactionsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, ny), txs[0].Date)
	assert.True(t, time.Date(2025, 8, 1, 23, 30, 0, 0, time.UTC).Equal(txs[1].Date), "offsets keep their instant")
}

func TestLoadTransactions_SyntheticIDsAreStable(t *testing.T) {
	loader := NewLoader(nil)
	path := writeFile(t, "tx.csv", transactionsCSV)

	first, err := loader.LoadTransactions(path)
	require.NoError(t, err)
	second, err := loader.LoadTransactions(path)
	require.NoError(t, err)

	assert.Equal(t, first[2].ID, second[2].ID)
	assert.Equal(t, fingerprint.Of(first), fingerprint.Of(second))
}

func TestLoadTransactions_IdenticalRowsGetDistinctIDs(t *testing.T) {
	csv := "ID,Date,Amount,Category,AccountID\n,2025-08-01,-4.50,Coffee,checking\n,2025-08-01,-4.50,Coffee,checking\n"
	txs, err := NewLoader(nil).LoadTransactions(writeFile(t, "tx.csv", csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.NotEqual(t, txs[0].ID, txs[1].ID)
}

func TestLoadTransactions_RowErrors(t *testing.T) {
	csv := "ID,Date,Amount,Category,AccountID\n1,2025-08-01,abc,Grocery,checking\n2,2025-08-01,,Grocery,checking\n"
	path := writeFile(t, "bad.csv", csv)

	_, err := NewLoader(nil).LoadTransactions(path)
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, "amount", rowErr.Field)
	assert.Equal(t, path, rowErr.File)
	assert.ErrorIs(t, err, ErrMissingAmount, "every bad row is reported")
	assert.Contains(t, err.Error(), "row 2: amount: missing amount")
}

func TestLoadTransactions_YAMLList(t *testing.T) {
	content := `
- id: a
  date: 2025-08-01
  amount: -12.30
  category: Coffee
  account_id: checking
- id: b
  date: "2025-08-02T10:00:00+02:00"
  amount: "100"
`
	txs, err := NewLoader(nil).LoadTransactions(writeFile(t, "tx.yml", content))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "-12.30", txs[0].Amount.StringFixed(2))
	assert.Equal(t, time.Date(2025, 8, 2, 8, 0, 0, 0, time.UTC), txs[1].Date.UTC())
}

func TestLoadAccounts(t *testing.T) {
	csv := "ID,Name,Type,Balance\nchecking,Main,Checking,1000.00\ncard,Visa,credit,-500.00\n"
	accounts, err := NewLoader(nil).LoadAccounts(writeFile(t, "accounts.csv", csv))
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, models.AccountChecking, accounts[0].Type)
	assert.Equal(t, "-500.00", accounts[1].Balance.StringFixed(2))
}

func TestLoadAccounts_InvalidType(t *testing.T) {
	csv := "ID,Name,Type,Balance\nx,Piggy,jar,10\n"
	_, err := NewLoader(nil).LoadAccounts(writeFile(t, "accounts.csv", csv))
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

const snapshotYAML = `
transactions:
  - id: "1"
    date: 2025-08-01
    amount: -150.00
    category: Grocery
    account_id: checking
accounts:
  - id: checking
    name: Main
    type: checking
    balance: 1000.00
  - id: savings
    type: savings
    balance: "2500"
`

func TestLoad_SnapshotWithOverride(t *testing.T) {
	loader := NewLoader(nil)
	snapPath := writeFile(t, "snapshot.yaml", snapshotYAML)

	snap, err := loader.Load(Files{Snapshot: snapPath})
	require.NoError(t, err)
	assert.Len(t, snap.Transactions, 1)
	assert.Len(t, snap.Accounts, 2)

	snap, err = loader.Load(Files{Snapshot: snapPath, Transactions: writeFile(t, "tx.csv", transactionsCSV)})
	require.NoError(t, err)
	assert.Len(t, snap.Transactions, 4, "transactions file replaces the snapshot list")
	assert.Len(t, snap.Accounts, 2)
}

func TestLoad_Errors(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.Load(Files{Transactions: writeFile(t, "tx.json", "[]")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = loader.Load(Files{Snapshot: writeFile(t, "snap.csv", transactionsCSV)})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = loader.Load(Files{Accounts: filepath.Join(t.TempDir(), "missing.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	snap, err := loader.Load(Files{})
	require.NoError(t, err)
	assert.Empty(t, snap.Transactions)
	assert.True(t, Files{}.Empty())
}

func TestReadTransactionsCSV(t *testing.T) {
	txs, err := NewLoader(nil).ReadTransactionsCSV(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	assert.Len(t, txs, 4)
}

func TestRowError_Format(t *testing.T) {
	err := &RowError{Row: 3, Field: "amount", Err: ErrMissingAmount}
	assert.Equal(t, "row 3: amount: missing amount", err.Error())
	assert.ErrorIs(t, err, ErrMissingAmount)
}

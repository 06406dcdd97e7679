// Package ledger loads a ledger snapshot (transactions and account balances) from
// CSV or YAML files.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/ledger-analytics/internal/currencyutils"
	"fjacquet/ledger-analytics/internal/dateutils"
	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"
	"fjacquet/ledger-analytics/internal/validation"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format identifies a snapshot file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch {
	case validation.HasExtension(path, ".csv"):
		return FormatCSV, nil
	case validation.HasExtension(path, ".yaml", ".yml"):
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// idNamespace seeds the name-based ids of rows that carry no id.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ledger-analytics/transaction"))

type transactionRow struct {
	ID        string `csv:"ID" yaml:"id"`
	Date      string `csv:"Date" yaml:"date"`
	Amount    string `csv:"Amount" yaml:"amount"`
	Category  string `csv:"Category" yaml:"category"`
	AccountID string `csv:"AccountID" yaml:"account_id"`
}

type accountRow struct {
	ID      string `csv:"ID" yaml:"id"`
	Name    string `csv:"Name" yaml:"name"`
	Type    string `csv:"Type" yaml:"type"`
	Balance string `csv:"Balance" yaml:"balance"`
}

type snapshotDocument struct {
	Transactions []transactionRow `yaml:"transactions"`
	Accounts     []accountRow     `yaml:"accounts"`
}

// Snapshot is the ledger state handed to the analytics engine.
type Snapshot struct {
	Transactions []models.Transaction `json:"transactions" yaml:"transactions"`
	Accounts     []models.Account     `json:"accounts" yaml:"accounts"`
}

// Files names the inputs of Load. Snapshot is a combined YAML document; Transactions
// and Accounts, when set, replace the corresponding half of it.
type Files struct {
	Snapshot     string
	Transactions string
	Accounts     string
}

// Empty reports whether no input is named.
func (f Files) Empty() bool {
	return f.Snapshot == "" && f.Transactions == "" && f.Accounts == ""
}

// Loader reads snapshots from disk.
type Loader struct {
	logger logging.Logger
	loc    *time.Location
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocation sets the location in which dates without an offset are read. It should
// match the analytics engine location so that a date keeps its calendar day.
func WithLocation(loc *time.Location) LoaderOption {
	return func(l *Loader) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// NewLoader creates a Loader. A nil logger discards output. Dates without an offset are
// read in the local time zone unless WithLocation says otherwise.
func NewLoader(logger logging.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	l := &Loader{
		logger: logger.WithField(logging.FieldComponent, "ledger"),
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every named file and merges them into one snapshot.
func (l *Loader) Load(files Files) (*Snapshot, error) {
	snap := &Snapshot{}
	if files.Snapshot != "" {
		s, err := l.LoadSnapshot(files.Snapshot)
		if err != nil {
			return nil, err
		}
		snap = s
	}
	if files.Transactions != "" {
		txs, err := l.LoadTransactions(files.Transactions)
		if err != nil {
			return nil, err
		}
		snap.Transactions = txs
	}
	if files.Accounts != "" {
		accounts, err := l.LoadAccounts(files.Accounts)
		if err != nil {
			return nil, err
		}
		snap.Accounts = accounts
	}
	return snap, nil
}

// LoadSnapshot reads a YAML document with top-level transactions and accounts lists.
func (l *Loader) LoadSnapshot(path string) (*Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != FormatYAML {
		return nil, fmt.Errorf("%w: snapshot files must be YAML: %s", ErrUnsupportedFormat, path)
	}

	if err := validation.RequireFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied snapshot path
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot file: %w", err)
	}

	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing snapshot file %s: %w", path, err)
	}

	txs, err := l.convertTransactions(path, doc.Transactions)
	if err != nil {
		return nil, err
	}
	accounts, err := convertAccounts(path, doc.Accounts)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded snapshot",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(txs)),
		logging.F("accounts", len(accounts)))
	return &Snapshot{Transactions: txs, Accounts: accounts}, nil
}

// LoadTransactions reads transactions from a CSV or YAML list file.
func (l *Loader) LoadTransactions(path string) ([]models.Transaction, error) {
	rows, err := readRows[transactionRow](path)
	if err != nil {
		return nil, err
	}
	txs, err := l.convertTransactions(path, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Loaded transactions",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// LoadAccounts reads accounts from a CSV or YAML list file.
func (l *Loader) LoadAccounts(path string) ([]models.Account, error) {
	rows, err := readRows[accountRow](path)
	if err != nil {
		return nil, err
	}
	accounts, err := convertAccounts(path, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Loaded accounts",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(accounts)))
	return accounts, nil
}

// ReadTransactionsCSV parses transactions from CSV data with the
// ID,Date,Amount,Category,AccountID header.
func (l *Loader) ReadTransactionsCSV(r io.Reader) ([]models.Transaction, error) {
	var rows []transactionRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return l.convertTransactions("", rows)
}

func readRows[T any](path string) ([]T, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	if err := validation.RequireFile(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path) // #nosec G304 -- user supplied input path
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var rows []T
	switch format {
	case FormatCSV:
		if err := gocsv.UnmarshalFile(file, &rows); err != nil {
			return nil, fmt.Errorf("error parsing CSV file %s: %w", path, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(file).Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error parsing YAML file %s: %w", path, err)
		}
	}
	return rows, nil
}

func (l *Loader) convertTransactions(file string, rows []transactionRow) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0, len(rows))
	var errs []error
	undated := 0

	for i, row := range rows {
		amount, err := parseAmount(row.Amount)
		if err != nil {
			errs = append(errs, &RowError{File: file, Row: i + 1, Field: "amount", Err: err})
			continue
		}

		tx := models.Transaction{
			ID:        strings.TrimSpace(row.ID),
			Amount:    amount,
			Category:  strings.TrimSpace(row.Category),
			AccountID: strings.TrimSpace(row.AccountID),
		}
		if when, err := dateutils.ParseDateStringIn(row.Date, l.loc); err == nil {
			tx.Date = when
		} else {
			tx.RawDate = row.Date
			undated++
		}
		if tx.ID == "" {
			tx.ID = syntheticID(i, row)
		}
		txs = append(txs, tx)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if undated > 0 {
		l.logger.Warn("Transactions without a parseable date are excluded from ranged analytics",
			logging.F(logging.FieldFile, file),
			logging.F(logging.FieldCount, undated))
	}
	return txs, nil
}

func convertAccounts(file string, rows []accountRow) ([]models.Account, error) {
	accounts := make([]models.Account, 0, len(rows))
	var errs []error

	for i, row := range rows {
		balance, err := parseAmount(row.Balance)
		if err != nil {
			errs = append(errs, &RowError{File: file, Row: i + 1, Field: "balance", Err: err})
			continue
		}
		accountType := models.AccountType(strings.ToLower(strings.TrimSpace(row.Type)))
		if !accountType.Valid() {
			errs = append(errs, &RowError{File: file, Row: i + 1, Field: "type",
				Err: fmt.Errorf("%w: %q", ErrInvalidAccountType, row.Type)})
			continue
		}
		accounts = append(accounts, models.Account{
			ID:      strings.TrimSpace(row.ID),
			Name:    strings.TrimSpace(row.Name),
			Type:    accountType,
			Balance: balance,
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return accounts, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return currencyutils.ParseAmount(raw)
}

// syntheticID derives a stable id from the row position and content, so reloading the
// same file yields the same fingerprint.
func syntheticID(index int, row transactionRow) string {
	name := strings.Join([]string{strconv.Itoa(index), row.Date, row.Amount, row.Category, row.AccountID}, "|")
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

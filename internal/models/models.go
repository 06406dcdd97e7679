// Package models provides the data structures shared by the analytics engine, the
// snapshot loader and the report renderer.
package models

import (
	"time"

	"fjacquet/ledger-analytics/internal/dateutils"

	"github.com/shopspring/decimal"
)

// CategoryUncategorized is the bucket for transactions without a category label.
const CategoryUncategorized = "Uncategorized"

// Transaction is one ledger entry. Positive amounts are inflows, negative amounts are
// outflows. The engine treats transactions as immutable.
type Transaction struct {
	ID string `json:"id" yaml:"id"`
	// Date is the native date value. When zero, RawDate is parsed instead.
	Date      time.Time       `json:"date,omitempty" yaml:"date,omitempty"`
	RawDate   string          `json:"raw_date,omitempty" yaml:"raw_date,omitempty"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Category  string          `json:"category" yaml:"category"`
	AccountID string          `json:"account_id" yaml:"account_id"`
}

// When returns the normalized date of the transaction, reading a date string without
// an offset as UTC. ok is false when neither a native date nor a parseable date string
// is present.
func (t Transaction) When() (time.Time, bool) {
	return t.WhenIn(time.UTC)
}

// WhenIn is like When but reads a date string without an offset as a calendar date in
// loc. Native dates are returned unchanged.
func (t Transaction) WhenIn(loc *time.Location) (time.Time, bool) {
	if !t.Date.IsZero() {
		return t.Date, true
	}
	if t.RawDate == "" {
		return time.Time{}, false
	}
	parsed, err := dateutils.ParseDateStringIn(t.RawDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// EffectiveCategory returns the category label, defaulting to "Uncategorized".
// Labels are case-sensitive; "Food" and "food" are distinct.
func (t Transaction) EffectiveCategory() string {
	if t.Category == "" {
		return CategoryUncategorized
	}
	return t.Category
}

// IsIncome returns true for strictly positive amounts.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsSpending returns true for strictly negative amounts.
func (t Transaction) IsSpending() bool {
	return t.Amount.IsNegative()
}

// AccountType classifies an account. It carries no sign semantics.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
)

// Valid reports whether the type is one of the known account types.
func (a AccountType) Valid() bool {
	switch a {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment, AccountLoan:
		return true
	}
	return false
}

// Account holds a balance. Positive balances are asset-like and negative balances are
// liability-like for every account type.
type Account struct {
	ID      string          `json:"id" yaml:"id"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Type    AccountType     `json:"type" yaml:"type"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

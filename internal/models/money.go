package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places of every money output.
const MoneyPlaces = 2

// RoundMoney rounds an accumulated amount for output.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Totals accumulates income and spending magnitudes without rounding.
type Totals struct {
	Income   decimal.Decimal
	Spending decimal.Decimal
	Count    int
}

// Add folds one transaction into the totals. Zero amounts only count.
func (t *Totals) Add(tx Transaction) {
	t.Count++
	switch {
	case tx.Amount.IsPositive():
		t.Income = t.Income.Add(tx.Amount)
	case tx.Amount.IsNegative():
		t.Spending = t.Spending.Add(tx.Amount.Abs())
	}
}

// Net returns income minus spending.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Spending)
}

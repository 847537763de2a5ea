package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func USD(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: currency.USD}
}

func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Fixed renders the amount with two decimal places, without a currency sign.
func (m Money) Fixed() string {
	return m.Amount.StringFixed(2)
}

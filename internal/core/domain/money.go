package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor units of a single currency.
type Money struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

// NewMoney normalizes the currency code to upper case.
func NewMoney(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

func (m Money) IsZero() bool     { return m.Cents == 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }
func (m Money) IsPositive() bool { return m.Cents > 0 }

// SameCurrency reports whether o is in m's currency.
func (m Money) SameCurrency(o Money) bool {
	return m.Currency == o.Currency
}

// Add returns m+o. Callers must ensure both are in the same currency.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents, Currency: m.Currency}
}

// Sub returns m-o. Callers must ensure both are in the same currency.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents, Currency: m.Currency}
}

// Decimal returns the amount in major units, e.g. 1050 USD cents -> 10.50.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bancor/internal/errors"
)

// Currency is a restricted ISO 4217 code. Only the codes in the allow-list
// below are valid anywhere in the ledger.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
)

var supportedCurrencies = map[Currency]bool{
	CurrencyARS: true,
	CurrencyUSD: true,
}

// ParseCurrency validates a raw code against the allow-list.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(code)
	if !supportedCurrencies[c] {
		return "", errors.ErrUnsupportedCurrency
	}
	return c, nil
}

// MoneyScale is the fixed number of decimal places every amount carries.
const MoneyScale = 2

// Money is an immutable currency-tagged amount. Every constructor rescales
// to two decimal places with banker's rounding (half to even), so cent-level
// outcomes of divided fees are deterministic. Arithmetic is only defined
// between equal currencies and always returns a new value.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money from an arbitrary-precision amount.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !supportedCurrencies[currency] {
		return Money{}, errors.ErrUnsupportedCurrency
	}
	return Money{amount: amount.RoundBank(MoneyScale), currency: currency}, nil
}

// NewMoneyFromString builds a Money from a decimal string such as "250.00".
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", errors.ErrInvalidAmount, err)
	}
	return NewMoney(d, currency)
}

// Zero returns the zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal value, always at scale 2.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency tag.
func (m Money) Currency() Currency { return m.currency }

// Add returns m + other. Fails when the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount).RoundBank(MoneyScale), currency: m.currency}, nil
}

// Subtract returns m - other. Fails when the currencies differ.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(other.amount).RoundBank(MoneyScale), currency: m.currency}, nil
}

func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(MoneyScale))
}

package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents for usd).
type Money struct {
	amount   int64
	currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("amount cannot be negative: %d", amount)
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code: %q", currency)
	}
	return Money{amount: amount, currency: strings.ToLower(currency)}, nil
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// Major returns the amount in major units, e.g. 999 usd -> 9.99.
func (m Money) Major() decimal.Decimal {
	return decimal.New(m.amount, -2)
}

// Display renders the amount as "9.99 USD".
func (m Money) Display() string {
	return m.Major().StringFixed(2) + " " + strings.ToUpper(m.currency)
}

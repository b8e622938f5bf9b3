package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRate = errors.New("exchange rate must be positive")

// Money is an amount in minor units tagged with its currency code.
// All arithmetic in the service happens on minor units; floats only
// appear at the exchange-rate boundary.
type Money struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

func New(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, m.Currency)
}

// Convert applies an exchange rate to an amount of minor units,
// rounding half away from zero.
func Convert(cents int64, rate float64) (int64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return int64(math.Round(float64(cents) * rate)), nil
}

// ConvertTo converts m into the target currency at the given rate.
func ConvertTo(m Money, rate float64, currency string) (Money, error) {
	cents, err := Convert(m.Cents, rate)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents, Currency: currency}, nil
}

package valueobject

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/paylight/bankcore/internal/domain"
)

// Money is an immutable amount bound to a currency. Amounts are rounded to
// two decimal places at construction and can never be negative; every
// operation returns a new Money. Keeping all arithmetic behind this type is
// what keeps cross-currency math and penny drift out of the rest of the
// system.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money from a float amount and a currency code.
func NewMoney(amount float64, currencyCode string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Money{}, fmt.Errorf("%w: got %v", domain.ErrInvalidAmount, amount)
	}
	cur, err := NewCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: decimal.NewFromFloat(amount).Round(2), currency: cur}, nil
}

// NewMoneyFromDecimal builds a Money from a decimal amount, used at the
// persistence boundary where amounts arrive as NUMERIC values.
func NewMoneyFromDecimal(amount decimal.Decimal, currencyCode string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: got %s", domain.ErrInvalidAmount, amount)
	}
	cur, err := NewCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount.Round(2), currency: cur}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currencyCode string) (Money, error) {
	return NewMoneyFromDecimal(decimal.Zero, currencyCode)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency     { return m.currency }

// Float64 returns the amount as a float, for snapshots and responses.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) String() string {
	return m.currency.Symbol() + m.amount.StringFixed(2)
}

func (m Money) assertSameCurrency(other Money) error {
	if !m.currency.Equals(other.currency) {
		return fmt.Errorf("%w: %s vs %s", domain.ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other. Fails when currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. Money cannot represent debt, so a result
// below zero fails with ErrNegativeResult.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	res := m.amount.Sub(other.amount)
	if res.IsNegative() {
		return Money{}, domain.ErrNegativeResult
	}
	return Money{amount: res, currency: m.currency}, nil
}

// Multiply returns m scaled by factor, rounded to two places.
func (m Money) Multiply(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Money{}, fmt.Errorf("%w: factor %v", domain.ErrInvalidAmount, factor)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(factor)).Round(2), currency: m.currency}, nil
}

// Divide returns m divided by divisor, rounded to two places.
func (m Money) Divide(divisor float64) (Money, error) {
	if math.IsNaN(divisor) || math.IsInf(divisor, 0) || divisor <= 0 {
		return Money{}, fmt.Errorf("%w: divisor %v", domain.ErrInvalidAmount, divisor)
	}
	return Money{amount: m.amount.Div(decimal.NewFromFloat(divisor)).Round(2), currency: m.currency}, nil
}

// Percentage returns p percent of m; p must lie in [0, 100].
func (m Money) Percentage(p float64) (Money, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return Money{}, fmt.Errorf("%w: percentage %v", domain.ErrInvalidAmount, p)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(p)).Div(decimal.NewFromInt(100)).Round(2), currency: m.currency}, nil
}

// Allocate splits the amount proportionally across len(ratios) buckets.
// It operates in integer cents; every non-final bucket gets
// floor(totalCents*ratio/sumRatios) and the last bucket takes whatever
// remains, so the buckets always sum exactly to the original amount.
func (m Money) Allocate(ratios []float64) ([]Money, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: ratios must not be empty", domain.ErrInvalidAmount)
	}
	var sum float64
	for _, r := range ratios {
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			return nil, fmt.Errorf("%w: ratio %v", domain.ErrInvalidAmount, r)
		}
		sum += r
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: ratios must sum to a positive number", domain.ErrInvalidAmount)
	}

	totalCents := m.amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	buckets := make([]Money, len(ratios))
	var assigned int64
	for i, r := range ratios {
		var cents int64
		if i == len(ratios)-1 {
			cents = totalCents - assigned
		} else {
			cents = int64(math.Floor(float64(totalCents) * r / sum))
			assigned += cents
		}
		buckets[i] = Money{amount: decimal.New(cents, -2), currency: m.currency}
	}
	return buckets, nil
}

// Equals reports whether both amount and currency match.
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.amount.Equal(other.amount)
}

// GreaterThan compares amounts; currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// LessThan compares amounts; currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

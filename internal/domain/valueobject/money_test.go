package valueobject

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/paylight/bankcore/internal/domain"
)

func mustMoney(t *testing.T, amount float64, code string) Money {
	t.Helper()
	m, err := NewMoney(amount, code)
	if err != nil {
		t.Fatalf("NewMoney(%v, %q): %v", amount, code, err)
	}
	return m
}

func TestNewMoney_RoundsToTwoPlaces(t *testing.T) {
	m := mustMoney(t, 10.005, "USD")
	if got := m.Amount().StringFixed(2); got != "10.01" {
		t.Fatalf("expected 10.01 got %s", got)
	}
}

func TestNewMoney_RejectsInvalidAmounts(t *testing.T) {
	for _, amount := range []float64{-1, -0.01} {
		if _, err := NewMoney(amount, "USD"); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount got %v", amount, err)
		}
	}
}

func TestNewMoney_RejectsUnknownCurrency(t *testing.T) {
	if _, err := NewMoney(10, "ZZZ"); !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency got %v", err)
	}
}

func TestMoney_Add(t *testing.T) {
	a := mustMoney(t, 10.50, "USD")
	b := mustMoney(t, 4.25, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := sum.Amount().StringFixed(2); got != "14.75" {
		t.Fatalf("expected 14.75 got %s", got)
	}
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := mustMoney(t, 10, "USD")
	b := mustMoney(t, 10, "EUR")

	if _, err := a.Add(b); !errors.Is(err, domain.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch got %v", err)
	}
}

func TestMoney_Subtract_NegativeResult(t *testing.T) {
	a := mustMoney(t, 5, "USD")
	b := mustMoney(t, 10, "USD")

	if _, err := a.Subtract(b); !errors.Is(err, domain.ErrNegativeResult) {
		t.Fatalf("expected ErrNegativeResult got %v", err)
	}
}

func TestMoney_Subtract(t *testing.T) {
	a := mustMoney(t, 10, "USD")
	b := mustMoney(t, 3.33, "USD")

	diff, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	if got := diff.Amount().StringFixed(2); got != "6.67" {
		t.Fatalf("expected 6.67 got %s", got)
	}
}

func TestMoney_MultiplyAndDivide(t *testing.T) {
	m := mustMoney(t, 10, "USD")

	tripled, err := m.Multiply(3)
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	if got := tripled.Amount().StringFixed(2); got != "30.00" {
		t.Fatalf("expected 30.00 got %s", got)
	}

	third, err := m.Divide(3)
	if err != nil {
		t.Fatalf("Divide: %v", err)
	}
	if got := third.Amount().StringFixed(2); got != "3.33" {
		t.Fatalf("expected 3.33 got %s", got)
	}

	if _, err := m.Multiply(-1); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative factor: expected ErrInvalidAmount got %v", err)
	}
	if _, err := m.Divide(0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero divisor: expected ErrInvalidAmount got %v", err)
	}
}

func TestMoney_Percentage(t *testing.T) {
	m := mustMoney(t, 200, "USD")

	p, err := m.Percentage(15)
	if err != nil {
		t.Fatalf("Percentage: %v", err)
	}
	if got := p.Amount().StringFixed(2); got != "30.00" {
		t.Fatalf("expected 30.00 got %s", got)
	}

	if _, err := m.Percentage(101); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("out of range: expected ErrInvalidAmount got %v", err)
	}
	if _, err := m.Percentage(-1); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative: expected ErrInvalidAmount got %v", err)
	}
}

func TestMoney_Allocate_SumsExactly(t *testing.T) {
	m := mustMoney(t, 100, "USD")

	buckets, err := m.Allocate([]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets got %d", len(buckets))
	}

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Amount())
	}
	if !total.Equal(m.Amount()) {
		t.Fatalf("buckets sum to %s, want %s", total, m.Amount())
	}
	// first two take the floor share, the last absorbs the remainder
	if got := buckets[0].Amount().StringFixed(2); got != "33.33" {
		t.Fatalf("bucket 0: expected 33.33 got %s", got)
	}
	if got := buckets[2].Amount().StringFixed(2); got != "33.34" {
		t.Fatalf("bucket 2: expected 33.34 got %s", got)
	}
}

func TestMoney_Allocate_WeightedRatios(t *testing.T) {
	m := mustMoney(t, 0.05, "USD")

	buckets, err := m.Allocate([]float64{3, 7})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got := buckets[0].Amount().StringFixed(2); got != "0.01" {
		t.Fatalf("bucket 0: expected 0.01 got %s", got)
	}
	if got := buckets[1].Amount().StringFixed(2); got != "0.04" {
		t.Fatalf("bucket 1: expected 0.04 got %s", got)
	}
}

func TestMoney_Allocate_RejectsBadRatios(t *testing.T) {
	m := mustMoney(t, 10, "USD")

	if _, err := m.Allocate(nil); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("empty ratios: expected ErrInvalidAmount got %v", err)
	}
	if _, err := m.Allocate([]float64{1, -1}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative ratio: expected ErrInvalidAmount got %v", err)
	}
	if _, err := m.Allocate([]float64{0, 0}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero sum: expected ErrInvalidAmount got %v", err)
	}
}

func TestMoney_Comparisons(t *testing.T) {
	a := mustMoney(t, 10, "USD")
	b := mustMoney(t, 20, "USD")

	gt, err := b.GreaterThan(a)
	if err != nil || !gt {
		t.Fatalf("expected b > a, err=%v", err)
	}
	lt, err := a.LessThan(b)
	if err != nil || !lt {
		t.Fatalf("expected a < b, err=%v", err)
	}

	other := mustMoney(t, 10, "EUR")
	if _, err := a.GreaterThan(other); !errors.Is(err, domain.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch got %v", err)
	}

	same := mustMoney(t, 10.00, "USD")
	if !a.Equals(same) {
		t.Fatalf("expected equal amounts to be equal")
	}
	if a.Equals(other) {
		t.Fatalf("different currencies must not be equal")
	}
}

func TestZeroMoney(t *testing.T) {
	z, err := ZeroMoney("USD")
	if err != nil {
		t.Fatalf("ZeroMoney: %v", err)
	}
	if !z.IsZero() {
		t.Fatalf("expected zero amount")
	}
}

func TestNewMoneyFromDecimal_RejectsNegative(t *testing.T) {
	if _, err := NewMoneyFromDecimal(decimal.NewFromInt(-1), "USD"); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount got %v", err)
	}
}

package valueobject

import (
	"errors"
	"testing"

	"github.com/paylight/bankcore/internal/domain"
)

func TestNewCurrency_NormalizesCode(t *testing.T) {
	c, err := NewCurrency("  usd ")
	if err != nil {
		t.Fatalf("NewCurrency: %v", err)
	}
	if c.Code() != "USD" || c.Symbol() != "$" || c.IsCrypto() {
		t.Fatalf("unexpected currency: %+v", c)
	}
}

func TestNewCurrency_RejectsUnknownCode(t *testing.T) {
	for _, code := range []string{"", "XYZ", "DOLLARS"} {
		if _, err := NewCurrency(code); !errors.Is(err, domain.ErrInvalidCurrency) {
			t.Fatalf("code %q: expected ErrInvalidCurrency got %v", code, err)
		}
	}
}

func TestNewCurrency_CryptoFlag(t *testing.T) {
	c, err := NewCurrency("btc")
	if err != nil {
		t.Fatalf("NewCurrency: %v", err)
	}
	if !c.IsCrypto() {
		t.Fatalf("expected BTC to be crypto")
	}
}

func TestCurrency_Equals(t *testing.T) {
	a := MustCurrency("USD")
	b := MustCurrency("usd")
	if !a.Equals(b) {
		t.Fatalf("expected same code to be equal")
	}
	if a.Equals(MustCurrency("EUR")) {
		t.Fatalf("different codes must not be equal")
	}
}

func TestMustCurrency_PanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustCurrency("NOPE")
}

func TestSupportedCurrencyCodes(t *testing.T) {
	codes := SupportedCurrencyCodes()
	if len(codes) != len(supportedCurrencies) {
		t.Fatalf("expected %d codes got %d", len(supportedCurrencies), len(codes))
	}
	seen := map[string]bool{}
	for _, c := range codes {
		seen[c] = true
	}
	for _, want := range []string{"USD", "EUR", "NGN", "BTC"} {
		if !seen[want] {
			t.Fatalf("missing %s in %v", want, codes)
		}
	}
}

func TestCurrency_IsZero(t *testing.T) {
	var c Currency
	if !c.IsZero() {
		t.Fatalf("zero value should report IsZero")
	}
	if MustCurrency("USD").IsZero() {
		t.Fatalf("resolved currency should not be zero")
	}
}

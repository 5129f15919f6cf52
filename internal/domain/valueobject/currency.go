package valueobject

import (
	"fmt"
	"strings"

	"github.com/paylight/bankcore/internal/domain"
)

// Currency is a validated currency code with display metadata. Instances
// come from a fixed supported set and are compared by code.
type Currency struct {
	code     string
	symbol   string
	name     string
	isCrypto bool
}

var supportedCurrencies = map[string]Currency{
	"USD": {code: "USD", symbol: "$", name: "US Dollar"},
	"EUR": {code: "EUR", symbol: "€", name: "Euro"},
	"GBP": {code: "GBP", symbol: "£", name: "British Pound"},
	"NGN": {code: "NGN", symbol: "₦", name: "Nigerian Naira"},
	"GHS": {code: "GHS", symbol: "₵", name: "Ghanaian Cedi"},
	"KES": {code: "KES", symbol: "KSh", name: "Kenyan Shilling"},
	"BTC": {code: "BTC", symbol: "₿", name: "Bitcoin", isCrypto: true},
	"ETH": {code: "ETH", symbol: "Ξ", name: "Ethereum", isCrypto: true},
	"USDT": {code: "USDT", symbol: "₮", name: "Tether", isCrypto: true},
}

// NewCurrency resolves a currency from its code. The code is trimmed and
// upper-cased before lookup; unknown codes fail with ErrInvalidCurrency.
func NewCurrency(code string) (Currency, error) {
	c, ok := supportedCurrencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, code)
	}
	return c, nil
}

// MustCurrency is for statically known codes; it panics on unknown ones.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// SupportedCurrencyCodes returns the supported set, useful for validation
// messages and API documentation.
func SupportedCurrencyCodes() []string {
	codes := make([]string, 0, len(supportedCurrencies))
	for code := range supportedCurrencies {
		codes = append(codes, code)
	}
	return codes
}

func (c Currency) Code() string   { return c.code }
func (c Currency) Symbol() string { return c.symbol }
func (c Currency) Name() string   { return c.name }
func (c Currency) IsCrypto() bool { return c.isCrypto }

// Equals compares currencies by code.
func (c Currency) Equals(other Currency) bool { return c.code == other.code }

// IsZero reports whether the currency was never initialized.
func (c Currency) IsZero() bool { return c.code == "" }

func (c Currency) String() string { return c.code }

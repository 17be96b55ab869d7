package treasury

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateProvider converts an amount in a currency into the reporting currency
type RateProvider interface {
	// Rate returns the multiplier from currency into the reporting currency and
	// false when the currency cannot be converted
	Rate(currency string) (decimal.Decimal, bool)
	// Base is the reporting currency
	Base() string
}

// StaticRates is a fixed multiplier table. The base currency always converts at 1.
type StaticRates struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewStaticRates builds a rate table for the given base currency
func NewStaticRates(base string, rates map[string]decimal.Decimal) StaticRates {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for currency, rate := range rates {
		normalized[strings.ToUpper(currency)] = rate
	}
	return StaticRates{base: strings.ToUpper(base), rates: normalized}
}

// DefaultRates is the dashboard's fixed USD table with EUR at 1.08
func DefaultRates() StaticRates {
	return NewStaticRates("USD", map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("1.08"),
	})
}

func (r StaticRates) Rate(currency string) (decimal.Decimal, bool) {
	currency = strings.ToUpper(currency)
	if currency == r.base {
		return decimal.NewFromInt(1), true
	}
	rate, ok := r.rates[currency]
	return rate, ok
}

func (r StaticRates) Base() string {
	return r.base
}

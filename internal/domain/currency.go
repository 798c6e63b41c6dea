package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Supported currency codes (ISO 4217). The set matches the currencies the
// bank actually issues accounts in.
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CAD": true, "AUD": true, "ARS": true,
}

// Minor-unit digits per currency. Currencies not listed use the default
// of two decimal places.
var minorUnits = map[string]int32{
	"JPY": 0,
}

const defaultMinorUnits int32 = 2

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported ISO 4217 code", ErrInvalidCurrency, currency)
	}

	return nil
}

// MinorUnits returns the number of decimal places conventionally used for
// amounts in the given currency.
func MinorUnits(currency string) int32 {
	if n, ok := minorUnits[strings.ToUpper(currency)]; ok {
		return n
	}

	return defaultMinorUnits
}

// RoundToMinorUnits rounds an amount half-up to the currency's minor-unit
// precision. Used for the credit leg of an exchange.
func RoundToMinorUnits(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(MinorUnits(currency))
}

package helpers

import (
	"regexp"
	"strings"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/shopspring/decimal"
)

// Limits on parsed amounts. Exponent notation such as "1e3000000" is never
// accepted; decimal arithmetic on it is unbounded.
const (
	MaxIntegerDigits = 15
	MaxDecimalPlaces = 10
)

var (
	currencyReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "", "USD", "")
	plainDecimal     = regexp.MustCompile(`^[+-]?(\d*)(?:\.(\d*))?$`)
)

// parsePlainDecimal accepts an optional sign, digits and at most one point,
// within MaxIntegerDigits and MaxDecimalPlaces
func parsePlainDecimal(s string) (decimal.Decimal, bool) {
	m := plainDecimal.FindStringSubmatch(s)
	if m == nil || m[1]+m[2] == "" {
		return decimal.Zero, false
	}
	if len(strings.TrimLeft(m[1], "0")) > MaxIntegerDigits || len(m[2]) > MaxDecimalPlaces {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseCurrencyString parses an amount such as "$1,234.56" into an exact decimal
func ParseCurrencyString(s string) (decimal.Decimal, error) {
	cleaned := currencyReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, taxerrors.InvalidInput("parse_currency", "empty amount %q", s)
	}
	amount, ok := parsePlainDecimal(cleaned)
	if !ok {
		return decimal.Zero, taxerrors.InvalidInput("parse_currency", "invalid amount %q", s)
	}
	return amount, nil
}

// FormatCurrency renders an amount in dollars with two decimal places, e.g. "$1234.50"
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// ParsePercent converts "37%" or "12.5 %" to the rate 0.37 or 0.125
func ParsePercent(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if cleaned == "" {
		return decimal.Zero, taxerrors.InvalidInput("parse_percent", "empty percentage %q", s)
	}
	pct, ok := parsePlainDecimal(cleaned)
	if !ok {
		return decimal.Zero, taxerrors.InvalidInput("parse_percent", "invalid percentage %q", s)
	}
	return pct.Shift(-2), nil
}

// FormatPercent renders a rate as a percentage without trailing zeros, e.g. "13.6%"
func FormatPercent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}

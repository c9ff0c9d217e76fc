// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing user-typed amounts into exact
// decimals and rendering decimals in the plain form used on disk.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a typed decimal string to a strictly positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit the user typed. Signs, exponents, grouping
// separators and zero are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(s)
	if err != nil {
		return decimal.Zero, invalid("amount", s, ErrInvalidAmount)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseBudgetLimit is like ParseAmount but accepts zero.
func ParseBudgetLimit(s string) (decimal.Decimal, error) {
	if t := strings.TrimSpace(s); strings.HasPrefix(t, "-") {
		return decimal.Zero, invalid("limit", s, ErrNegativeBudget)
	}
	d, err := parsePlainDecimal(s)
	if err != nil {
		return decimal.Zero, invalid("limit", s, ErrInvalidArgument)
	}
	return d, nil
}

func parsePlainDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return decimal.Zero, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		return decimal.NewFromString(intPart)
	}
	return decimal.NewFromString(intPart + "." + fracPart)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatAmount renders d in plain digits, keeping its fractional scale
// (10.00 stays "10.00") and never using exponent notation.
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// ParseStoredAmount parses an amount as written by FormatAmount. Unlike
// ParseAmount it takes the canonical dot form only and does not validate.
func ParseStoredAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

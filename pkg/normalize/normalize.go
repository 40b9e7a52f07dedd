// Package normalize folds the free text and numbers found in bank exports
// into the canonical forms used for names, amounts and quantities.
package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Name trims, lowercases, turns underscores into spaces and collapses
// whitespace runs into a single space.
//
// Two names that only differ in any of these ways are the same name.
func Name(text string) string {
	text = strings.ReplaceAll(text, "_", " ")
	return strings.Join(strings.Fields(lower.String(text)), " ")
}

// Names normalizes every name and drops the ones that end up empty.
func Names(texts []string) []string {
	names := make([]string, 0, len(texts))
	for _, t := range texts {
		if n := Name(t); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Amount parses a signed decimal amount. Currency symbols, thousands separators
// and surrounding whitespace are ignored, a value in parentheses is negative.
// Anything that still does not parse is zero.
func Amount(text string) decimal.Decimal {
	text = strings.TrimSpace(text)

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
	}

	text = strings.NewReplacer("$", "", ",", "", " ", "").Replace(text)
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}

	if negative {
		return amount.Neg()
	}
	return amount
}

// Quantity parses a positive integer quantity.
// It returns nil for anything else so that the caller can apply its default.
func Quantity(text string) *int {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q <= 0 {
		return nil
	}
	return &q
}

// QuantityOr returns the parsed quantity or def.
func QuantityOr(text string, def int) int {
	if q := Quantity(text); q != nil {
		return *q
	}
	return def
}

// Header normalizes a CSV column name: byte order marks and quotes are removed,
// the name is trimmed and lowercased, and inner whitespace becomes "_".
func Header(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, `"`, "")
	return strings.Join(strings.Fields(lower.String(text)), "_")
}

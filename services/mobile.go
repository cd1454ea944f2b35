package services

import (
	"strings"
	"unicode"
)

// characters stripped from stored numbers before matching
var mobilePunctuation = []string{"(", ")", "-", " "}

// NormalizeMobileQuery keeps only the digits of a search query.
func NormalizeMobileQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeStoredMobile mirrors the SQL expression built by mobileColumnExpr.
func NormalizeStoredMobile(number string) string {
	for _, p := range mobilePunctuation {
		number = strings.ReplaceAll(number, p, "")
	}
	return number
}

// mobileColumnExpr wraps the column in nested REPLACE calls, which every
// supported dialect understands.
func mobileColumnExpr(column string) string {
	expr := column
	for _, p := range mobilePunctuation {
		expr = "REPLACE(" + expr + ", '" + p + "', '')"
	}
	return expr
}

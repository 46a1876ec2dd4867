package engine

import (
	"regexp"
	"strings"
)

// NormalizeAttribute strips property binding brackets and surrounding
// whitespace. Brackets are removed independently, so unbalanced "[fxFlex" is
// accepted as well.
func NormalizeAttribute(name string) string {
	name = strings.Replace(name, "[", "", 1)
	name = strings.Replace(name, "]", "", 1)
	return strings.TrimSpace(name)
}

// IsPropertyBinding reports whether raw attribute name uses [name] syntax.
func IsPropertyBinding(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]")
}

// SplitAttribute returns normalized base name and breakpoint suffix of raw
// attribute name.
func SplitAttribute(raw string) (base, suffix string) {
	base, suffix, _ = strings.Cut(NormalizeAttribute(raw), ".")
	return base, suffix
}

// SplitValues splits attribute value into whitespace delimited tokens.
func SplitValues(v string) []string {
	return strings.Fields(v)
}

var reArbitrary = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|em|rem|%|vw|vh|vmin|vmax)$`)

// IsArbitraryValue reports whether value is a number with CSS unit and so
// does not belong to any predefined scale.
func IsArbitraryValue(v string) bool {
	return reArbitrary.MatchString(v)
}

// Arbitrary wraps value in bracket notation when it is an arbitrary value.
func Arbitrary(v string) string {
	if IsArbitraryValue(v) {
		return "[" + v + "]"
	}
	return v
}

var reNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// IsNumber reports whether value is a plain unitless number.
func IsNumber(v string) bool {
	return reNumber.MatchString(v)
}

// BindingLiteral extracts static value from property binding expression.
// Only quoted string literals and numbers could be evaluated.
func BindingLiteral(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) >= 2 {
		if q := expr[0]; (q == '\'' || q == '"' || q == '`') && expr[len(expr)-1] == q {
			inner := expr[1 : len(expr)-1]
			if !strings.ContainsRune(inner, rune(q)) {
				return inner, true
			}
			return "", false
		}
	}
	if IsNumber(expr) {
		return expr, true
	}
	return "", false
}

// backend/src/money/money.go
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VAT rates applied by the aggregator and the detectors.
var (
	VATRate           = decimal.RequireFromString("0.12")
	GovernmentVATRate = decimal.RequireFromString("0.05")
)

// Zero is the additive identity, kept here so callers don't mix decimal.Zero with zero-value decimals.
var Zero = decimal.Zero

// Parse converts a raw amount string into a decimal. Anything unparsable yields zero,
// so one bad cell never aborts a batch.
//
// Accepted forms: "1234.56", "1,234.56", "1.234,56", "₱1,234.56", "(1,234.56)", "-1234.56",
// "1.5E+3".
func Parse(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}
		return -1
	}, s)

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

// normalizeSeparators resolves thousands vs. decimal separators. The separator that
// appears last is taken as the decimal point.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma == -1:
		return s
	case lastDot == -1:
		// "1,234" is thousands, "12,50" is a decimal comma.
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

// Round rounds half-up to 2 decimal places. Only call this when formatting output.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders d with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent returns d × rate without rounding.
func Percent(d, rate decimal.Decimal) decimal.Decimal {
	return d.Mul(rate)
}

// MaxAbs returns the larger of |a| and |b|.
func MaxAbs(a, b decimal.Decimal) decimal.Decimal {
	return decimal.Max(a.Abs(), b.Abs())
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

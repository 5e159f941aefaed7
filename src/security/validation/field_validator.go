// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxPeriodLength        = 16
	MaxDescriptionLength   = 1024
	MaxTransactionIDLength = 128
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Domain Validators ---

var (
	// 2026, 2026-01, 2026-Q1
	periodRegex        = regexp.MustCompile(`^\d{4}(-(0[1-9]|1[0-2])|-Q[1-4])?$`)
	transactionIDRegex = regexp.MustCompile(`^[A-Za-z0-9._:/#-]+$`)
)

// ValidatePeriod checks a filing period: a year, a year-month or a year-quarter.
func ValidatePeriod(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "period"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxPeriodLength, "period"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, periodRegex, "period", "YYYY, YYYY-MM or YYYY-Qn")
}

// ValidateSessionID checks that s is a UUID.
func ValidateSessionID(s string) error {
	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("%w: session id ('%s') is not a valid UUID", ErrValidationFailed, s)
	}
	return nil
}

// ValidateTransactionID allows empty ids; the parser will fingerprint the row instead.
func ValidateTransactionID(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxTransactionIDLength, "transaction id"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, transactionIDRegex, "transaction id", "letters, digits and . _ : / # -")
}

// ValidateDeclaredValues checks the declared report map: known keys only. Values may be negative,
// as computed input VAT and net VAT can be.
// isKnownKey is supplied by the caller so this package stays free of engine imports.
func ValidateDeclaredValues(values map[string]decimal.Decimal, isKnownKey func(string) bool) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: calculated_data cannot be empty", ErrValidationFailed)
	}
	for key := range values {
		if !isKnownKey(key) {
			return fmt.Errorf("%w: unknown report line '%s'", ErrValidationFailed, key)
		}
	}
	return nil
}

package domain

import (
	"strings"
	"time"
	"unicode"
)

// NormalizeMobile strips every non-digit character
func NormalizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidMobile reports whether the number has exactly 10 digits after normalization
func IsValidMobile(raw string) bool {
	return len(NormalizeMobile(raw)) == MobileDigits
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsDateInPast reports whether the calendar day of date is before the calendar day of now.
// Time of day is ignored.
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

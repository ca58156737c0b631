package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "20060102" // YYYYMMDD

// parseDateYYYYMMDD converts an 8-digit date token to a calendar date.
// An empty token propagates as nil; a malformed non-empty token is an error.
func parseDateYYYYMMDD(token string) (*time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrDateParse, token)
	}
	return &t, nil
}

// stripSign removes one leading '+' if present. It does not validate that the
// remainder is numeric; that is the caller's job.
func stripSign(token string) string {
	return strings.TrimPrefix(token, "+")
}

// stripQualityFlags removes a trailing run of characters drawn from the given
// flag alphabet. Absence of a flag is not an error.
func stripQualityFlags(token, alphabet string) string {
	end := len(token)
	for end > 0 && strings.ContainsRune(alphabet, rune(token[end-1])) {
		end--
	}
	return token[:end]
}

// fahrenheitToCelsius converts a Fahrenheit reading, preserving nil.
func fahrenheitToCelsius(value *float64) *float64 {
	if value == nil {
		return nil
	}
	c := (*value - 32) * 5 / 9
	return &c
}

// parseDecimal parses a plain decimal token, wrapping failures in the numeric
// parse error with the raw token preserved.
func parseDecimal(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumericParse, token)
	}
	return v, nil
}

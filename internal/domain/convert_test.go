package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateYYYYMMDD(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected *time.Time
		wantErr  bool
	}{
		{"regular date", "19500101", datePtr(1950, time.January, 1), false},
		{"leading zero year", "05000315", datePtr(500, time.March, 15), false},
		{"end of range", "20201231", datePtr(2020, time.December, 31), false},
		{"empty propagates nil", "", nil, false},
		{"whitespace only propagates nil", "   ", nil, false},
		{"too short", "1950011", nil, true},
		{"too long", "195001011", nil, true},
		{"non-digits", "1950AB01", nil, true},
		{"invalid month", "19501301", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDateYYYYMMDD(tc.token)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrDateParse)
				return
			}
			require.NoError(t, err)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tc.expected.Equal(*got))
		})
	}
}

func TestParseDateYYYYMMDD_RoundTrip(t *testing.T) {
	// Re-formatting the parsed date must reproduce the token regardless of
	// leading zeros in the day and month fields.
	for _, token := range []string{"19500101", "20200229", "19990909", "20011010"} {
		got, err := parseDateYYYYMMDD(token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, token, got.Format(dateLayout))
	}
}

func TestStripSign(t *testing.T) {
	assert.Equal(t, "12.345", stripSign("+12.345"))
	assert.Equal(t, "-98.44", stripSign("-98.44"))
	assert.Equal(t, "0", stripSign("0"))
	// Only one leading plus is removed.
	assert.Equal(t, "+5", stripSign("++5"))
	assert.Equal(t, "", stripSign("+"))
}

func TestStripQualityFlags(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		alphabet string
		expected string
	}{
		{"single flag", "0.00A", "ABCDEFGHI", "0.00"},
		{"flag G is in the precipitation alphabet", "0.00G", "ABCDEFGHI", "0.00"},
		{"star flag", "999.9*", "*", "999.9"},
		{"no flag present", "45.2", "ABCDEFGHI", "45.2"},
		{"trailing run", "1.25AB", "ABCDEFGHI", "1.25"},
		{"foreign character kept", "0.00Z", "ABCDEFGHI", "0.00Z"},
		{"empty alphabet", "0.00A", "", "0.00A"},
		{"empty token", "", "ABCDEFGHI", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripQualityFlags(tc.token, tc.alphabet))
		})
	}
}

func TestFahrenheitToCelsius(t *testing.T) {
	assert.Nil(t, fahrenheitToCelsius(nil))

	tests := []struct {
		fahrenheit float64
		celsius    float64
	}{
		{32.0, 0.0},
		{212.0, 100.0},
		{-40.0, -40.0},
		{50.0, 10.0},
	}
	for _, tc := range tests {
		got := fahrenheitToCelsius(&tc.fahrenheit)
		require.NotNil(t, got)
		assert.InDelta(t, tc.celsius, *got, 1e-9)
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

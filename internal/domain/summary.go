package domain

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// identityTokens is the number of leading station identity columns (USAF,
// WBAN) dropped from every archive line. Identity comes from the fetch
// context, not from re-parsing the line.
const identityTokens = 2

const indicatorWidth = 6

// Sentinel "no observation" strings, matched exactly after flag stripping.
var sentinels = map[string]struct{}{
	"9999.9": {},
	"999.9":  {},
	"99.99":  {},
}

// Per-column trailing quality-flag alphabets.
const (
	tempFlags   = "*"         // MAX/MIN derived from hourly data
	precipFlags = "ABCDEFGHI" // number of 6-hour reports in the total
)

type slotKind int

const (
	slotDate slotKind = iota
	slotValue
	slotIgnored
	slotIndicators
)

type slot struct {
	name  string
	kind  slotKind
	flags string // quality-flag alphabet stripped before numeric parsing
}

// summarySchema fixes the positional layout of an archive line after the
// identity tokens are dropped. Ignored slots are the per-column observation
// counts: they produce no output but must be consumed to keep alignment.
var summarySchema = []slot{
	{name: "date", kind: slotDate},
	{name: "temp", kind: slotValue},
	{name: "temp_count", kind: slotIgnored},
	{name: "dew_point", kind: slotValue},
	{name: "dew_point_count", kind: slotIgnored},
	{name: "sea_level_pressure", kind: slotValue},
	{name: "sea_level_pressure_count", kind: slotIgnored},
	{name: "station_pressure", kind: slotValue},
	{name: "station_pressure_count", kind: slotIgnored},
	{name: "visibility", kind: slotValue},
	{name: "visibility_count", kind: slotIgnored},
	{name: "wind_speed", kind: slotValue},
	{name: "wind_speed_count", kind: slotIgnored},
	{name: "max_wind_speed", kind: slotValue},
	{name: "max_wind_gust", kind: slotValue},
	{name: "max_temp", kind: slotValue, flags: tempFlags},
	{name: "min_temp", kind: slotValue, flags: tempFlags},
	{name: "precipitation", kind: slotValue, flags: precipFlags},
	{name: "snow_depth", kind: slotValue},
	{name: "indicators", kind: slotIndicators},
}

// ParseSummaryLine converts one archive line into a DailySummary. The line is
// split on whitespace runs and assigned positionally against summarySchema;
// any failure aborts the whole record.
func ParseSummaryLine(line string) (DailySummary, error) {
	tokens := strings.Fields(line)
	// Under-length lines are rejected; tokens past the indicator slot are
	// tolerated, matching how the archive format has historically grown by
	// appending columns.
	if len(tokens) < identityTokens+len(summarySchema) {
		return DailySummary{}, fmt.Errorf("%w: line has %d tokens, schema needs %d: %q",
			ErrShortRecord, len(tokens), identityTokens+len(summarySchema), line)
	}
	tokens = tokens[identityTokens:]

	var sum DailySummary
	for i, s := range summarySchema {
		token := tokens[i]
		switch s.kind {
		case slotIgnored:
			// consumed for alignment only

		case slotDate:
			d, err := parseDateYYYYMMDD(token)
			if err != nil {
				return DailySummary{}, err
			}
			sum.Date = *d

		case slotValue:
			v, err := parseMeasurement(token, s.flags)
			if err != nil {
				return DailySummary{}, fmt.Errorf("%s: %w", s.name, err)
			}
			*sum.measurement(s.name) = v

		case slotIndicators:
			if err := decodeIndicators(token, &sum); err != nil {
				return DailySummary{}, err
			}
		}
	}

	sum.TempC = fahrenheitToCelsius(sum.Temp)
	sum.MaxTempC = fahrenheitToCelsius(sum.MaxTemp)
	sum.MinTempC = fahrenheitToCelsius(sum.MinTemp)

	return sum, nil
}

// ParseSummaryLines lazily parses a sequence of archive lines. The sequence
// is single-pass and aborts at the first failing line, surfacing that line's
// error. The archive's own embedded header line must already be skipped.
func ParseSummaryLines(lines iter.Seq[string]) iter.Seq2[DailySummary, error] {
	return func(yield func(DailySummary, error) bool) {
		for line := range lines {
			sum, err := ParseSummaryLine(line)
			if !yield(sum, err) || err != nil {
				return
			}
		}
	}
}

// parseMeasurement strips the column's quality flags, maps sentinels to nil
// and parses the remainder as a decimal.
func parseMeasurement(token, flags string) (*float64, error) {
	stripped := stripQualityFlags(token, flags)
	if _, missing := sentinels[stripped]; missing {
		return nil, nil
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNumericParse, token)
	}
	return &v, nil
}

// decodeIndicators maps the six FRSHTT positions onto the boolean fields and
// derives WeatherOK. Width is enforced exactly: zero-filling a short token
// would silently invent observations.
func decodeIndicators(token string, sum *DailySummary) error {
	if len(token) != indicatorWidth {
		return fmt.Errorf("%w: %q is %d characters, want %d", ErrMalformedIndicator, token, len(token), indicatorWidth)
	}
	targets := [indicatorWidth]*bool{&sum.Fog, &sum.Rain, &sum.Snow, &sum.Hail, &sum.Thunder, &sum.Tornado}
	any := false
	for i, target := range targets {
		set := token[i] == '1'
		*target = set
		any = any || set
	}
	sum.WeatherOK = !any
	return nil
}

// measurement maps a schema slot name to its struct field.
func (d *DailySummary) measurement(name string) **float64 {
	switch name {
	case "temp":
		return &d.Temp
	case "dew_point":
		return &d.DewPoint
	case "sea_level_pressure":
		return &d.SeaLevelPressure
	case "station_pressure":
		return &d.StationPressure
	case "visibility":
		return &d.Visibility
	case "wind_speed":
		return &d.WindSpeed
	case "max_wind_speed":
		return &d.MaxWindSpeed
	case "max_wind_gust":
		return &d.MaxWindGust
	case "max_temp":
		return &d.MaxTemp
	case "min_temp":
		return &d.MinTemp
	case "precipitation":
		return &d.Precipitation
	case "snow_depth":
		return &d.SnowDepth
	}
	panic("unknown measurement slot: " + name)
}

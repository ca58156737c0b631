package domain

import (
	"fmt"
	"time"
)

// NoDataLocation is the station directory's "no data" encoding for latitude,
// longitude and elevation. The parser passes it through as a literal value;
// interpreting it is the caller's decision.
const NoDataLocation = -99999

// Station is one normalized row of the station directory. Pointer fields are
// nil when the source cell was empty or whitespace-only.
type Station struct {
	USAF    *string `json:"usaf,omitempty"`
	WBAN    *string `json:"wban,omitempty"`
	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"`
	State   *string `json:"state,omitempty"`
	Call    *string `json:"call,omitempty"`

	Lat  *float64 `json:"lat,omitempty"`  // decimal degrees
	Lon  *float64 `json:"lon,omitempty"`  // decimal degrees
	Elev *float64 `json:"elev,omitempty"` // meters

	Begin *time.Time `json:"begin,omitempty"`
	End   *time.Time `json:"end,omitempty"`

	// Fields holds every header-derived key with its raw cell value, nil for
	// absent cells. The key set mirrors the header exactly, including columns
	// this struct has no typed field for.
	Fields map[string]*string `json:"-"`
}

// StationYear identifies one yearly archive of a single station.
type StationYear struct {
	USAF string `json:"usaf"`
	WBAN string `json:"wban"`
	Year int    `json:"year"`
}

func (s StationYear) String() string {
	return fmt.Sprintf("%s-%s-%d", s.USAF, s.WBAN, s.Year)
}

// DailySummary is one normalized archive line: a single station-day of
// observations. Pointer fields are nil when the source token matched a
// sentinel "no observation" value.
type DailySummary struct {
	Date time.Time `json:"date"`

	Temp             *float64 `json:"temp,omitempty"`               // °F
	DewPoint         *float64 `json:"dew_point,omitempty"`          // °F
	SeaLevelPressure *float64 `json:"sea_level_pressure,omitempty"` // mb
	StationPressure  *float64 `json:"station_pressure,omitempty"`   // mb
	Visibility       *float64 `json:"visibility,omitempty"`         // miles
	WindSpeed        *float64 `json:"wind_speed,omitempty"`         // knots
	MaxWindSpeed     *float64 `json:"max_wind_speed,omitempty"`     // knots
	MaxWindGust      *float64 `json:"max_wind_gust,omitempty"`      // knots
	MaxTemp          *float64 `json:"max_temp,omitempty"`           // °F
	MinTemp          *float64 `json:"min_temp,omitempty"`           // °F
	Precipitation    *float64 `json:"precipitation,omitempty"`      // inches
	SnowDepth        *float64 `json:"snow_depth,omitempty"`         // inches

	// Derived Celsius companions, nil iff the Fahrenheit value is nil.
	TempC    *float64 `json:"temp_c,omitempty"`
	MaxTempC *float64 `json:"max_temp_c,omitempty"`
	MinTempC *float64 `json:"min_temp_c,omitempty"`

	Fog     bool `json:"fog"`
	Rain    bool `json:"rain"`
	Snow    bool `json:"snow"`
	Hail    bool `json:"hail"`
	Thunder bool `json:"thunder"`
	Tornado bool `json:"tornado"`

	// WeatherOK is true when none of the six indicators is set.
	WeatherOK bool `json:"weather_ok"`
}

// RawLine is one unparsed archive line together with the station context it
// was fetched under.
type RawLine struct {
	Station StationYear
	Num     int // 1-based line number within the archive, header excluded
	Text    string
}

// SummaryRecord is the pipeline envelope around a parsed summary: the station
// context supplied by the fetch layer plus a parse timestamp.
type SummaryRecord struct {
	Station  StationYear  `json:"station"`
	Summary  DailySummary `json:"summary"`
	ParsedAt time.Time    `json:"parsed_at"`
}

// NewRecord wraps a parsed summary with its station context, stamped with the
// package clock so tests can freeze ParsedAt.
func NewRecord(station StationYear, summary DailySummary) SummaryRecord {
	return SummaryRecord{
		Station:  station,
		Summary:  summary,
		ParsedAt: clock.Now(),
	}
}

// Key returns the sink message key for this record: usaf-wban-yyyymmdd.
// Deterministic keys keep reprocessed records on the same partition and make
// downstream upserts idempotent.
func (r SummaryRecord) Key() string {
	return fmt.Sprintf("%s-%s-%s", r.Station.USAF, r.Station.WBAN, r.Summary.Date.Format("20060102"))
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Package domain parses NOAA Global Summary of the Day (GSOD) weather data.
//
// # Data Source
//
// Two upstream artifacts feed this package, both fetched by the archive
// adapter and handed over as plain text:
//
//   - The station directory, a CSV listing every known surface station
//     (https://www1.ncdc.noaa.gov/pub/data/noaa/isd-history.csv).
//   - Yearly station archives, gzip files of fixed-token text lines, one line
//     per station-day (pub/data/gsod/{year}/{usaf}-{wban}-{year}.op.gz).
//     The layout is documented in ftp://ftp.ncdc.noaa.gov/pub/data/gsod/readme.txt.
//
// # Archive Line Layout
//
// Each line starts with the USAF and WBAN identifiers, which are dropped
// during parsing (the caller already knows which station it requested),
// followed by twenty positional columns:
//
//	YEARMODA TEMP n DEWP n SLP n STP n VISIB n WDSP n MXSPD GUST MAX MIN PRCP SNDP FRSHTT
//
// The six "n" columns are observation counts. They carry no value for this
// pipeline but must be consumed positionally to keep the remaining columns
// aligned; the schema table names each one explicitly so the column-count
// invariant stays auditable.
//
// # Missing Values and Quality Flags
//
// A fixed numeral string marks "no observation" and is distinct from a parse
// failure: 9999.9 (temperatures, pressures), 999.9 (visibility, wind, snow
// depth) and 99.99 (precipitation). Sentinels are matched exactly after flag
// stripping, so 45.2 is a reading even though 999.9 is not.
//
// Some tokens carry a trailing quality flag that must be stripped before
// numeric interpretation:
//
//	MAX, MIN:  '*' marks a value derived from hourly data rather than an
//	           explicit max/min report.
//	PRCP:      'A'..'I' encode how many 6-hour reports the total is built
//	           from ('I' means the station reported no precipitation data).
//
// A trailing character outside the column's flag alphabet is an error, not a
// flag; the token is rejected rather than silently truncated.
//
// # Indicators
//
// FRSHTT is a six-character 0/1 string: fog, rain/drizzle, snow/ice pellets,
// hail, thunder, tornado/funnel cloud. Tokens that are not exactly six
// characters wide are rejected. WeatherOK is derived as true when none of the
// six indicators is set.
//
// # Units
//
// Values are carried in the archive's native units (Fahrenheit, knots, miles,
// inches, millibars). Celsius companions are derived for TEMP, MAX and MIN;
// no other conversion is invented here.
//
// # Station Directory
//
// Field keys are derived from the header row (lower-cased, spaces to
// underscores, the "(.1M)" elevation suffix stripped), so the directory
// parses under both the historical and the current column set. Latitude,
// longitude and elevation keep the upstream encoding apart from sign
// stripping; the -99999 "no data" marker is passed through for the caller to
// interpret (see [NoDataLocation]).
//
// Parsing is pure and stateless. Every parse function is an independent
// transform over its input with no shared mutable state, safe to call from
// any number of goroutines.
package domain

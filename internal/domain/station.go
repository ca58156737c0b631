package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// elevSuffix is the dimensional annotation the historical station directory
// appends to the elevation column ("ELEV(.1M)"). It is stripped during key
// derivation so both header generations map to the same key.
const elevSuffix = "(.1m)"

// ParseStationHeader derives normalized field keys from the directory header
// row: lower-case, spaces to underscores, elevation suffix stripped, in that
// order. A duplicate or empty derived key is a malformed header.
func ParseStationHeader(header []string) ([]string, error) {
	keys := make([]string, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for _, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		key = strings.ReplaceAll(key, elevSuffix, "")
		if key == "" {
			return nil, fmt.Errorf("%w: empty key derived from column %q", ErrMalformedHeader, cell)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformedHeader, key)
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

// ParseStationRow zips the derived field keys with one CSV row and builds a
// normalized Station. Empty cells become nil before any type conversion. A
// row with fewer cells than the header is rejected; extra cells are ignored.
func ParseStationRow(keys, row []string) (Station, error) {
	if len(row) < len(keys) {
		return Station{}, fmt.Errorf("%w: row has %d cells, header has %d", ErrShortRecord, len(row), len(keys))
	}

	fields := make(map[string]*string, len(keys))
	for i, key := range keys {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			fields[key] = nil
			continue
		}
		fields[key] = &cell
	}

	st := Station{
		USAF:    pick(fields, "usaf", "stn"),
		WBAN:    pick(fields, "wban"),
		Name:    pick(fields, "station_name", "name"),
		Country: pick(fields, "ctry", "country"),
		State:   pick(fields, "st", "state"),
		Call:    pick(fields, "call", "icao"),
		Fields:  fields,
	}

	var err error
	if st.Lat, err = parseLocation(pick(fields, "lat")); err != nil {
		return Station{}, fmt.Errorf("lat: %w", err)
	}
	if st.Lon, err = parseLocation(pick(fields, "lon")); err != nil {
		return Station{}, fmt.Errorf("lon: %w", err)
	}
	if st.Elev, err = parseLocation(pick(fields, "elev", "elev(m)")); err != nil {
		return Station{}, fmt.Errorf("elev: %w", err)
	}
	if st.Begin, err = parseDateYYYYMMDD(deref(pick(fields, "begin"))); err != nil {
		return Station{}, fmt.Errorf("begin: %w", err)
	}
	if st.End, err = parseDateYYYYMMDD(deref(pick(fields, "end"))); err != nil {
		return Station{}, fmt.Errorf("end: %w", err)
	}

	return st, nil
}

// ParseStationDirectory lazily parses a whole station directory document:
// first line header, one row per station. The sequence is single-pass and
// ends at the first failing row, surfacing that row's error.
func ParseStationDirectory(r io.Reader) iter.Seq2[Station, error] {
	return func(yield func(Station, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1

		header, err := cr.Read()
		if err != nil {
			yield(Station{}, fmt.Errorf("read station header: %w", err))
			return
		}
		keys, err := ParseStationHeader(header)
		if err != nil {
			yield(Station{}, err)
			return
		}

		for {
			row, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Station{}, fmt.Errorf("read station row: %w", err))
				return
			}
			st, err := ParseStationRow(keys, row)
			if err != nil {
				yield(Station{}, err)
				return
			}
			if !yield(st, nil) {
				return
			}
		}
	}
}

// parseLocation strips one leading '+' and parses the remainder as a plain
// decimal. The upstream -99999 "no data" marker is passed through literally.
func parseLocation(raw *string) (*float64, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := parseDecimal(stripSign(*raw))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// pick returns the first present key, preferring earlier names. Later names
// cover older header generations.
func pick(fields map[string]*string, names ...string) *string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return v
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

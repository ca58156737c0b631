package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStationHeader(t *testing.T) {
	t.Run("historical header", func(t *testing.T) {
		keys, err := ParseStationHeader([]string{"STN", "LAT", "LON", "ELEV(.1M)", "BEGIN", "END"})
		require.NoError(t, err)
		assert.Equal(t, []string{"stn", "lat", "lon", "elev", "begin", "end"}, keys)
	})

	t.Run("current header", func(t *testing.T) {
		keys, err := ParseStationHeader([]string{"USAF", "WBAN", "STATION NAME", "CTRY", "ST", "CALL", "LAT", "LON", "ELEV(M)", "BEGIN", "END"})
		require.NoError(t, err)
		assert.Equal(t, []string{"usaf", "wban", "station_name", "ctry", "st", "call", "lat", "lon", "elev(m)", "begin", "end"}, keys)
	})

	t.Run("duplicate derived key", func(t *testing.T) {
		_, err := ParseStationHeader([]string{"LAT", "lat"})
		require.ErrorIs(t, err, ErrMalformedHeader)
		assert.Contains(t, err.Error(), `"lat"`)
	})

	t.Run("empty derived key", func(t *testing.T) {
		_, err := ParseStationHeader([]string{"USAF", "  "})
		require.ErrorIs(t, err, ErrMalformedHeader)
	})
}

func TestParseStationRow(t *testing.T) {
	keys := []string{"stn", "lat", "lon", "elev", "begin", "end"}

	t.Run("sign stripping and literal values", func(t *testing.T) {
		st, err := ParseStationRow(keys, []string{"+12345", "+34567", "-99999", "+00123", "19500101", "20201231"})
		require.NoError(t, err)

		require.NotNil(t, st.USAF)
		assert.Equal(t, "12345", *st.USAF)
		require.NotNil(t, st.Lat)
		assert.Equal(t, 34567.0, *st.Lat)
		// No '+' to strip; the no-data marker passes through literally.
		require.NotNil(t, st.Lon)
		assert.Equal(t, float64(NoDataLocation), *st.Lon)
		require.NotNil(t, st.Elev)
		assert.Equal(t, 123.0, *st.Elev)

		require.NotNil(t, st.Begin)
		assert.Equal(t, time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC), *st.Begin)
		require.NotNil(t, st.End)
		assert.Equal(t, time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), *st.End)
	})

	t.Run("empty cells become nil", func(t *testing.T) {
		st, err := ParseStationRow(keys, []string{"", "  ", "", "", "", ""})
		require.NoError(t, err)
		assert.Nil(t, st.USAF)
		assert.Nil(t, st.Lat)
		assert.Nil(t, st.Lon)
		assert.Nil(t, st.Elev)
		assert.Nil(t, st.Begin)
		assert.Nil(t, st.End)
		// Every header key is present in the field set, absent or not.
		assert.Len(t, st.Fields, len(keys))
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ParseStationRow(keys, []string{"12345", "34.5"})
		require.ErrorIs(t, err, ErrShortRecord)
	})

	t.Run("malformed begin date", func(t *testing.T) {
		_, err := ParseStationRow(keys, []string{"12345", "", "", "", "1950", ""})
		require.ErrorIs(t, err, ErrDateParse)
		assert.Contains(t, err.Error(), "begin")
	})

	t.Run("unparsable latitude", func(t *testing.T) {
		_, err := ParseStationRow(keys, []string{"12345", "+north", "", "", "", ""})
		require.ErrorIs(t, err, ErrNumericParse)
		assert.Contains(t, err.Error(), "lat")
	})

	t.Run("current header variant maps typed fields", func(t *testing.T) {
		fullKeys, err := ParseStationHeader([]string{"USAF", "WBAN", "STATION NAME", "CTRY", "ST", "CALL", "LAT", "LON", "ELEV(M)", "BEGIN", "END"})
		require.NoError(t, err)

		st, err := ParseStationRow(fullKeys, []string{"725030", "14732", "LA GUARDIA AIRPORT", "US", "NY", "KLGA", "+40.779", "-73.880", "+0003.4", "19730101", "20240823"})
		require.NoError(t, err)
		require.NotNil(t, st.Name)
		assert.Equal(t, "LA GUARDIA AIRPORT", *st.Name)
		require.NotNil(t, st.Country)
		assert.Equal(t, "US", *st.Country)
		require.NotNil(t, st.State)
		assert.Equal(t, "NY", *st.State)
		require.NotNil(t, st.Call)
		assert.Equal(t, "KLGA", *st.Call)
		require.NotNil(t, st.Lat)
		assert.Equal(t, 40.779, *st.Lat)
		require.NotNil(t, st.Lon)
		assert.Equal(t, -73.880, *st.Lon)
		require.NotNil(t, st.Elev)
		assert.Equal(t, 3.4, *st.Elev)
	})

	t.Run("re-parsing is idempotent for absent cells", func(t *testing.T) {
		row := []string{"", "", "", "", "", ""}
		first, err := ParseStationRow(keys, row)
		require.NoError(t, err)
		second, err := ParseStationRow(keys, row)
		require.NoError(t, err)
		assert.Equal(t, first.Lat, second.Lat)
		assert.Nil(t, second.Lat)
	})
}

func TestParseStationDirectory(t *testing.T) {
	t.Run("lazy sequence over a document", func(t *testing.T) {
		doc := strings.Join([]string{
			`"USAF","WBAN","STATION NAME","CTRY","ST","CALL","LAT","LON","ELEV(M)","BEGIN","END"`,
			`"725030","14732","LA GUARDIA AIRPORT","US","NY","KLGA","+40.779","-73.880","+0003.4","19730101","20240823"`,
			`"030050","99999","LERWICK","UK","","","+60.139","-1.183","+0082.0","19291001","20240823"`,
		}, "\n")

		var stations []Station
		for st, err := range ParseStationDirectory(strings.NewReader(doc)) {
			require.NoError(t, err)
			stations = append(stations, st)
		}

		require.Len(t, stations, 2)
		require.NotNil(t, stations[0].Call)
		assert.Equal(t, "KLGA", *stations[0].Call)
		require.NotNil(t, stations[1].Name)
		assert.Equal(t, "LERWICK", *stations[1].Name)
		assert.Nil(t, stations[1].State)
	})

	t.Run("aborts at the first bad row", func(t *testing.T) {
		doc := strings.Join([]string{
			`USAF,WBAN,BEGIN,END`,
			`725030,14732,19730101,20240823`,
			`030050,99999,not-a-date,20240823`,
			`030060,99999,19500101,20240823`,
		}, "\n")

		var parsed int
		var lastErr error
		for _, err := range ParseStationDirectory(strings.NewReader(doc)) {
			if err != nil {
				lastErr = err
				continue
			}
			parsed++
		}

		assert.Equal(t, 1, parsed, "sequence must stop before the row after the failure")
		require.ErrorIs(t, lastErr, ErrDateParse)
	})

	t.Run("malformed header surfaces immediately", func(t *testing.T) {
		doc := "LAT,lat\n1,2\n"
		for _, err := range ParseStationDirectory(strings.NewReader(doc)) {
			require.ErrorIs(t, err, ErrMalformedHeader)
		}
	})

	t.Run("early break stops consumption", func(t *testing.T) {
		doc := strings.Join([]string{
			`USAF,WBAN`,
			`725030,14732`,
			`030050,99999`,
		}, "\n")

		count := 0
		for _, err := range ParseStationDirectory(strings.NewReader(doc)) {
			require.NoError(t, err)
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

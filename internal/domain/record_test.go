package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	frozen := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	sum, err := ParseSummaryLine(testLine)
	require.NoError(t, err)

	rec := NewRecord(StationYear{USAF: "030050", WBAN: "99999", Year: 1929}, sum)

	assert.Equal(t, frozen, rec.ParsedAt)
	assert.Equal(t, "030050-99999-19291001", rec.Key())
	assert.Equal(t, "030050-99999-1929", rec.Station.String())
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/gsod-etl/internal/archive"
	"github.com/couchcryptid/gsod-etl/internal/domain"
)

// ArchiveSource provides the raw daily-summary lines for one station-year.
type ArchiveSource interface {
	SummaryLines(ctx context.Context, sy domain.StationYear) ([]string, error)
}

// ArchiveExtractor walks a fixed set of station-years in order, fetching each
// archive on demand and handing out its lines in batches. Once every
// station-year has been consumed it returns ErrSourceDrained.
type ArchiveExtractor struct {
	logger *slog.Logger

	src     ArchiveSource
	targets []domain.StationYear
	next    int              // index of the next station-year to fetch
	pending []domain.RawLine // lines fetched but not yet handed out
}

// NewArchiveExtractor creates an extractor over the given station-years.
func NewArchiveExtractor(src ArchiveSource, targets []domain.StationYear, logger *slog.Logger) *ArchiveExtractor {
	return &ArchiveExtractor{
		src:     src,
		targets: targets,
		logger:  logger,
	}
}

// ExtractBatch returns up to batchSize raw lines, fetching the next
// station-year archive whenever the buffer runs dry. Missing archives are
// logged and skipped; NOAA has no file for years a station was not reporting.
func (e *ArchiveExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawLine, error) {
	for len(e.pending) == 0 {
		if e.next >= len(e.targets) {
			return nil, ErrSourceDrained
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sy := e.targets[e.next]
		lines, err := e.src.SummaryLines(ctx, sy)
		if err != nil {
			if errors.Is(err, archive.ErrArchiveNotFound) {
				e.logger.Info("archive not available, skipping", "station_year", sy.String())
				e.next++
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", sy.String(), err)
		}
		e.next++

		e.pending = make([]domain.RawLine, 0, len(lines))
		for i, line := range lines {
			e.pending = append(e.pending, domain.RawLine{
				Station: sy,
				Num:     i + 1,
				Text:    line,
			})
		}
		e.logger.Debug("archive fetched", "station_year", sy.String(), "lines", len(lines))
	}

	n := batchSize
	if n > len(e.pending) {
		n = len(e.pending)
	}
	batch := e.pending[:n]
	e.pending = e.pending[n:]
	return batch, nil
}

// ExpandStationYears crosses the configured usaf-wban pairs with the year
// range, producing one target per station per year.
func ExpandStationYears(stations []string, startYear, endYear int) ([]domain.StationYear, error) {
	targets := make([]domain.StationYear, 0, len(stations)*(endYear-startYear+1))
	for _, s := range stations {
		usaf, wban, ok := strings.Cut(s, "-")
		if !ok || usaf == "" || wban == "" {
			return nil, fmt.Errorf("invalid station %q, want usaf-wban", s)
		}
		for year := startYear; year <= endYear; year++ {
			targets = append(targets, domain.StationYear{USAF: usaf, WBAN: wban, Year: year})
		}
	}
	return targets, nil
}

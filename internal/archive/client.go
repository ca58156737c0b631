// Package archive fetches and decodes the NOAA GSOD upstream artifacts: the
// station directory CSV and the yearly per-station .op.gz archives. It is the
// I/O collaborator around the pure parsers in the domain package.
package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/gsod-etl/internal/domain"
	"github.com/couchcryptid/gsod-etl/internal/observability"
)

// Default upstream locations, overridable via configuration.
const (
	DefaultBaseURL     = "https://www1.ncdc.noaa.gov/pub/data/gsod"
	DefaultStationsURL = "https://www1.ncdc.noaa.gov/pub/data/noaa/isd-history.csv"
)

// ErrArchiveNotFound reports a station-year with no published archive. Many
// stations have gaps; callers are expected to skip these rather than abort.
var ErrArchiveNotFound = errors.New("archive not found")

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher implements Fetcher over plain HTTP with a request timeout.
type HTTPFetcher struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewHTTPFetcher creates an HTTP fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch downloads one URL. A 404 maps to ErrArchiveNotFound; any other
// non-200 status is an error carrying the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	f.metrics.ArchiveFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.ArchiveFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		f.metrics.ArchiveFetches.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, url)
	case resp.StatusCode != http.StatusOK:
		f.metrics.ArchiveFetches.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.metrics.ArchiveFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	f.metrics.ArchiveFetches.WithLabelValues("success").Inc()
	f.logger.Debug("fetched", "url", url, "bytes", len(body))
	return body, nil
}

// Client resolves station directories and yearly archives against the NOAA
// layout and hands decoded text to the domain parsers.
type Client struct {
	fetcher     Fetcher
	baseURL     string
	stationsURL string
	logger      *slog.Logger
}

// NewClient creates an archive client. Empty URLs fall back to the NOAA
// defaults.
func NewClient(fetcher Fetcher, baseURL, stationsURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if stationsURL == "" {
		stationsURL = DefaultStationsURL
	}
	return &Client{
		fetcher:     fetcher,
		baseURL:     baseURL,
		stationsURL: stationsURL,
		logger:      logger,
	}
}

// Stations fetches the station directory and returns the lazily parsed
// station sequence.
func (c *Client) Stations(ctx context.Context) (iter.Seq2[domain.Station, error], error) {
	body, err := c.fetcher.Fetch(ctx, c.stationsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch station directory: %w", err)
	}
	return domain.ParseStationDirectory(bytes.NewReader(body)), nil
}

// SummaryLines fetches and decompresses one station-year archive and returns
// its raw record lines, with the archive's embedded header line removed.
func (c *Client) SummaryLines(ctx context.Context, sy domain.StationYear) ([]string, error) {
	url := fmt.Sprintf("%s/%d/%s-%s-%d.op.gz", c.baseURL, sy.Year, sy.USAF, sy.WBAN, sy.Year)

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gunzip %s: %w", url, err)
	}
	defer gz.Close()

	var lines []string
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		if first {
			// The archive leads with its own column header.
			first = false
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	c.logger.Debug("archive decoded", "station_year", sy.String(), "lines", len(lines))
	return lines, nil
}

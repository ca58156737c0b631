// Command gsodcat parses local NOAA GSOD files and prints the result as
// NDJSON, one record per line. It handles both the daily archive format
// (.op, optionally gzipped) and the isd-history.csv station directory.
//
// Usage:
//
//	go run ./cmd/gsodcat 030050-99999-1929.op.gz
//	go run ./cmd/gsodcat -stations isd-history.csv
//
// Lines that fail to parse are reported on stderr with their line number;
// the exit status is 1 if any line failed.
package main

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/gsod-etl/internal/domain"
)

func main() {
	stations := flag.Bool("stations", false, "parse a station directory CSV instead of a daily archive")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gsodcat [-stations] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gsodcat: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gsodcat: gunzip %s: %v\n", path, err)
			os.Exit(1)
		}
		defer gz.Close()
		r = gz
	}

	var failures int
	if *stations {
		failures = catStations(r)
	} else {
		failures = catSummaries(r)
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "gsodcat: %d line(s) failed to parse\n", failures)
		os.Exit(1)
	}
}

// catSummaries parses daily archive lines, skipping the column header NOAA
// puts at the top of every file.
func catSummaries(r io.Reader) int {
	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	failures := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 || strings.TrimSpace(line) == "" {
			continue
		}

		summary, err := domain.ParseSummaryLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gsodcat: line %d: %v\n", lineNum, err)
			failures++
			continue
		}
		if err := out.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "gsodcat: line %d: %v\n", lineNum, err)
			failures++
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "gsodcat: read: %v\n", err)
		failures++
	}
	return failures
}

// catStations parses the isd-history.csv station directory. The directory is
// read lazily; the first malformed row stops the scan.
func catStations(r io.Reader) int {
	out := json.NewEncoder(os.Stdout)

	failures := 0
	for station, err := range domain.ParseStationDirectory(r) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "gsodcat: %v\n", err)
			failures++
			break
		}
		if err := out.Encode(station); err != nil {
			fmt.Fprintf(os.Stderr, "gsodcat: %v\n", err)
			failures++
		}
	}
	return failures
}

package domain

import "errors"

// Parse errors are sentinel values wrapped with the offending raw input, so
// callers can branch with errors.Is while logs keep the bad token for
// diagnosis. Parsers fail on the offending record and never skip it silently;
// whether to skip, log or abort is the caller's call.
var (
	// ErrMalformedHeader reports a duplicate or empty derived field key in the
	// station directory header.
	ErrMalformedHeader = errors.New("malformed station header")

	// ErrShortRecord reports an input with fewer fields than its schema
	// expects: a station row shorter than the header, or an archive line with
	// missing columns.
	ErrShortRecord = errors.New("record shorter than schema")

	// ErrDateParse reports a non-empty token that is not a valid YYYYMMDD date.
	ErrDateParse = errors.New("malformed date token")

	// ErrNumericParse reports a non-empty, non-sentinel token that is not a
	// valid decimal after quality-flag stripping.
	ErrNumericParse = errors.New("malformed numeric token")

	// ErrMalformedIndicator reports an FRSHTT token that is not exactly six
	// characters wide.
	ErrMalformedIndicator = errors.New("malformed indicator token")
)

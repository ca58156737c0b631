package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/gsod-etl/internal/domain"
)

// SummaryTransformer parses a raw archive line into a daily summary record
// and serializes it for publishing.
type SummaryTransformer struct{}

// NewSummaryTransformer creates a SummaryTransformer.
func NewSummaryTransformer() *SummaryTransformer {
	return &SummaryTransformer{}
}

// Transform parses the line and wraps the result in an output event keyed by
// station and date.
func (t *SummaryTransformer) Transform(_ context.Context, raw domain.RawLine) (domain.OutputEvent, error) {
	summary, err := domain.ParseSummaryLine(raw.Text)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("line %d: %w", raw.Num, err)
	}

	rec := domain.NewRecord(raw.Station, summary)
	value, err := json.Marshal(rec)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("marshal record: %w", err)
	}

	return domain.OutputEvent{
		Key:   []byte(rec.Key()),
		Value: value,
		Headers: map[string]string{
			"station":   raw.Station.String(),
			"parsed_at": rec.ParsedAt.Format(time.RFC3339),
		},
	}, nil
}

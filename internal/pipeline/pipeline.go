package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/gsod-etl/internal/domain"
	"github.com/couchcryptid/gsod-etl/internal/observability"
)

// ErrSourceDrained signals that the extractor has walked every configured
// station-year and no more lines will ever arrive. The pipeline finishes its
// run cleanly when it sees this.
var ErrSourceDrained = errors.New("archive source drained")

// BatchExtractor reads up to batchSize raw archive lines from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawLine, error)
}

// Transformer converts a raw archive line into an output event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawLine) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline orchestrates the extract-transform-load loop over a finite set of
// station-year archives.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has processed at least one
// batch, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any records yet")
	}
	return nil
}

// Run executes the batch ETL loop until the source is drained or the context
// is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during NOAA or
	// Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		done, cont := p.processBatch(ctx, &backoff, maxBackoff)
		if done {
			p.logger.Info("ingest complete")
			return nil
		}
		if !cont {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. The first return value
// reports a drained source; the second is false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) (bool, bool) {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if errors.Is(err, ErrSourceDrained) {
			return true, false
		}
		if ctx.Err() != nil {
			return false, false
		}
		p.logger.Error("extract batch failed", "error", err)
		return false, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return false, ctx.Err() == nil
	}

	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false, false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return false, true
}

// transformAndLoad transforms each line in the batch and loads the successes.
// Lines the parser rejects are logged and counted, then skipped; the parser
// itself never skips, the decision is made here. Returns the number of loaded
// records and false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawLine, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping line",
				"error", err,
				"station_year", raw.Station.String(),
				"line", raw.Num,
			)
			p.metrics.ParseErrors.WithLabelValues(errorKind(err)).Inc()
			continue
		}
		p.metrics.RecordsParsed.Inc()
		outBatch = append(outBatch, out)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	// Retry the same batch until it lands. The extractor consumes lines
	// destructively, so handing control back without loading would lose the
	// batch; holding it here keeps delivery at-least-once.
	for {
		err := p.loader.LoadBatch(ctx, outBatch)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed, will retry", "error", err, "batch_size", len(outBatch))
		if !p.backoffOrStop(ctx, backoff, maxBackoff) {
			return 0, false
		}
	}

	p.metrics.RecordsPublished.Add(float64(len(outBatch)))
	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// errorKind maps a parse error to its metric label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrDateParse):
		return "date"
	case errors.Is(err, domain.ErrNumericParse):
		return "numeric"
	case errors.Is(err, domain.ErrMalformedIndicator):
		return "indicator"
	case errors.Is(err, domain.ErrShortRecord):
		return "short_record"
	case errors.Is(err, domain.ErrMalformedHeader):
		return "header"
	default:
		return "other"
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package audit

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// LogSink writes pipeline runs to the structured logger. The sink is
// shared across concurrent pipeline runs, so writes are serialized.
type LogSink struct {
	mu sync.Mutex
}

// NewLogSink creates a LogSink
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Record logs the quality report and deployment outcome of a run
func (x *LogSink) Record(ctx context.Context, run *model.PipelineRun) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	logger := ctxlog.From(ctx)

	attrs := []any{
		"run_id", run.ID,
		"event_id", run.Event.ID,
		"repository", run.Event.Repository,
		"source_ref", run.Event.SourceRef,
		"actor", run.Event.Actor,
		"status", run.Status(),
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}

	if run.Report != nil {
		attrs = append(attrs,
			"score", run.Report.Score,
			"threshold", run.Report.Threshold,
			"gate_passed", run.Report.Passed,
			"violation_count", len(run.Report.Violations),
		)
	}

	if run.Outcome != nil {
		attrs = append(attrs,
			"attempt_count", run.Outcome.AttemptCount,
			"last_http_code", run.Outcome.LastHTTPCode,
			"reason", run.Outcome.Reason,
		)
	}

	logger.Info("Pipeline run completed", attrs...)
	return nil
}

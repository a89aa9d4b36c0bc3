package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

type pipelineUseCase struct {
	gate      interfaces.QualityGate
	notifier  interfaces.DeployNotifier
	codeSet   []string
	threshold float64
	sinks     []interfaces.AuditSink
	history   interfaces.HistoryRepo
}

// PipelineOption is a functional option for pipeline configuration
type PipelineOption func(*pipelineUseCase)

// WithCodeSet sets the source paths evaluated by the quality gate
func WithCodeSet(paths []string) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.codeSet = paths
	}
}

// WithThreshold sets the minimum passing score
func WithThreshold(threshold float64) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.threshold = threshold
	}
}

// WithAuditSinks adds audit sinks receiving every finished run
func WithAuditSinks(sinks ...interfaces.AuditSink) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.sinks = append(uc.sinks, sinks...)
	}
}

// WithHistory sets the run history store
func WithHistory(repo interfaces.HistoryRepo) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.history = repo
	}
}

// NewPipeline creates the pipeline coordinator: quality gate first,
// deployment notification only when the gate passes.
func NewPipeline(gate interfaces.QualityGate, notifier interfaces.DeployNotifier, opts ...PipelineOption) interfaces.PipelineUseCase {
	uc := &pipelineUseCase{
		gate:      gate,
		notifier:  notifier,
		threshold: 8.0,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes one pipeline for the trigger event. Deployment never
// proceeds on a failing quality score.
func (uc *pipelineUseCase) Run(ctx context.Context, event *model.TriggerEvent) (*model.PipelineRun, error) {
	logger := ctxlog.From(ctx)

	if err := event.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid trigger event")
	}

	run := &model.PipelineRun{
		ID:        uuid.NewString(),
		Event:     *event,
		StartedAt: time.Now(),
	}

	logger.Info("Pipeline run started",
		"run_id", run.ID,
		"event_id", event.ID,
		"repository", event.Repository,
		"source_ref", event.SourceRef,
		"actor", event.Actor,
	)

	report, err := uc.gate.Evaluate(ctx, uc.codeSet, uc.threshold)
	if err != nil {
		return nil, goerr.Wrap(err, "quality gate could not run",
			goerr.V("run_id", run.ID),
		)
	}
	run.Report = report

	if !report.Passed {
		run.Outcome = &model.DeploymentOutcome{
			FinalStatus: model.StatusAborted,
			Reason:      fmt.Sprintf("quality gate failed: score %.2f below threshold %.2f", report.Score, report.Threshold),
		}
		uc.finish(ctx, run)
		return run, nil
	}

	outcome, err := uc.notifier.Notify(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "deployment notification could not start",
			goerr.V("run_id", run.ID),
		)
	}
	run.Outcome = outcome

	uc.finish(ctx, run)
	return run, nil
}

// finish stamps the run and fans it out to audit sinks and history.
// Sink failures are logged, never propagated to the trigger source.
func (uc *pipelineUseCase) finish(ctx context.Context, run *model.PipelineRun) {
	logger := ctxlog.From(ctx)
	run.FinishedAt = time.Now()

	for _, sink := range uc.sinks {
		if err := sink.Record(ctx, run); err != nil {
			logger.Error("Failed to record pipeline run to audit sink",
				"run_id", run.ID,
				"error", err,
			)
		}
	}

	if uc.history != nil {
		if err := uc.history.Put(ctx, run); err != nil {
			logger.Error("Failed to store pipeline run history",
				"run_id", run.ID,
				"error", err,
			)
		}
	}
}

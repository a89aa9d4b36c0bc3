package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// PipelineUseCase defines the coordinator that sequences the quality
// gate and the deployment notifier for one trigger event
type PipelineUseCase interface {
	// Run executes a full pipeline for the event and returns its
	// audit record. The returned error is non-nil only for fatal
	// conditions (analysis failure, missing credential, bad input);
	// gate rejections and exhausted retries are expressed through
	// the run's outcome.
	Run(ctx context.Context, event *model.TriggerEvent) (*model.PipelineRun, error)
}

// QualityGate evaluates a code set against a minimum score
type QualityGate interface {
	// Evaluate runs static analysis and decides pass/fail. A score
	// equal to threshold passes.
	Evaluate(ctx context.Context, codeSet []string, threshold float64) (*model.QualityReport, error)
}

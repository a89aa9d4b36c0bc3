package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

type qualityGate struct {
	analyzer interfaces.Analyzer
}

// NewQualityGate creates a QualityGate backed by an external analyzer
func NewQualityGate(analyzer interfaces.Analyzer) interfaces.QualityGate {
	return &qualityGate{
		analyzer: analyzer,
	}
}

// Evaluate runs static analysis over the code set and decides pass or
// fail. A score equal to the threshold passes.
func (uc *qualityGate) Evaluate(ctx context.Context, codeSet []string, threshold float64) (*model.QualityReport, error) {
	logger := ctxlog.From(ctx)

	if len(codeSet) == 0 {
		return nil, goerr.New("code set is empty",
			goerr.T(types.ErrTagAnalysis),
		)
	}
	if threshold < 0 || threshold > 10 {
		return nil, goerr.New("threshold out of range",
			goerr.T(types.ErrTagConfig),
			goerr.V("threshold", threshold),
		)
	}

	result, err := uc.analyzer.Analyze(ctx, codeSet)
	if err != nil {
		return nil, goerr.Wrap(err, "static analysis failed",
			goerr.T(types.ErrTagAnalysis),
		)
	}

	report := model.NewQualityReport(result.Score, threshold, result.Violations)

	logger.Info("Quality gate evaluated",
		"score", report.Score,
		"threshold", report.Threshold,
		"passed", report.Passed,
		"violation_count", len(report.Violations),
	)

	return report, nil
}

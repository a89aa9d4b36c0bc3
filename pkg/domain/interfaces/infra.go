package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// Analyzer runs an external static analysis tool over a code set
type Analyzer interface {
	Analyze(ctx context.Context, codeSet []string) (*model.AnalysisResult, error)
}

// DeployNotifier issues the authenticated control-plane call telling
// the remote system to update itself
type DeployNotifier interface {
	// Notify performs the delivery with retry. The returned error is
	// non-nil only when the credential is missing or malformed, in
	// which case no network call was made.
	Notify(ctx context.Context) (*model.DeploymentOutcome, error)
}

// AuditSink records pipeline runs for audit. Implementations must be
// safe for concurrent use.
type AuditSink interface {
	Record(ctx context.Context, run *model.PipelineRun) error
}

// HistoryRepo persists pipeline runs
type HistoryRepo interface {
	Put(ctx context.Context, run *model.PipelineRun) error
	List(ctx context.Context, limit int) ([]*model.PipelineRun, error)
}

package history

import (
	"context"
	"sync"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// Memory is an in-process run history, newest first. Used when no
// Firestore project is configured, and in tests.
type Memory struct {
	mu   sync.Mutex
	runs []*model.PipelineRun
	max  int
}

// NewMemory creates a Memory store keeping at most max runs. max <= 0
// means unbounded.
func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

// Put prepends the run
func (x *Memory) Put(ctx context.Context, run *model.PipelineRun) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.runs = append([]*model.PipelineRun{run}, x.runs...)
	if x.max > 0 && len(x.runs) > x.max {
		x.runs = x.runs[:x.max]
	}
	return nil
}

// List returns up to limit runs, newest first
func (x *Memory) List(ctx context.Context, limit int) ([]*model.PipelineRun, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if limit <= 0 || limit > len(x.runs) {
		limit = len(x.runs)
	}
	out := make([]*model.PipelineRun, limit)
	copy(out, x.runs[:limit])
	return out, nil
}

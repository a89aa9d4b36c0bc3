package cli

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth error", goerr.New("credential missing", goerr.T(types.ErrTagAuth)), exitConfigError},
		{"config error", goerr.New("bad threshold", goerr.T(types.ErrTagConfig)), exitConfigError},
		{"analysis error", goerr.New("analyzer crashed", goerr.T(types.ErrTagAnalysis)), exitConfigError},
		{"wrapped auth error", goerr.Wrap(goerr.New("credential missing", goerr.T(types.ErrTagAuth)), "notification could not start"), exitConfigError},
		{"untagged error", errors.New("something else"), exitNotifyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeOf(tt.err); got != tt.want {
				t.Errorf("exitCodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeForRun(t *testing.T) {
	tests := []struct {
		name   string
		status model.FinalStatus
		want   int
	}{
		{"deployed", model.StatusSuccess, exitDeployed},
		{"gate failed", model.StatusAborted, exitGateFailed},
		{"delivery failed", model.StatusFailed, exitNotifyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &model.PipelineRun{
				Outcome: &model.DeploymentOutcome{FinalStatus: tt.status},
			}
			if got := exitCodeForRun(run); got != tt.want {
				t.Errorf("exitCodeForRun() = %d, want %d", got, tt.want)
			}
		})
	}
}

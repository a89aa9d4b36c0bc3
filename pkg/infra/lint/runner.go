package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

// Runner invokes an external static analyzer and parses its JSON
// report. The analyzer command is configured once; the code set paths
// are appended as trailing arguments on each invocation.
//
// Expected report shape on stdout:
//
//	{"score": 8.5, "violations": [{"file": ..., "line": ..., "rule": ..., "message": ...}]}
type Runner struct {
	command []string
}

// New creates a Runner for the given analyzer command line
func New(command []string) *Runner {
	return &Runner{command: command}
}

// Analyze runs the analyzer over the code set. A non-zero analyzer
// exit code is expected when violations exist, so it does not fail the
// run as long as the report parses.
func (x *Runner) Analyze(ctx context.Context, codeSet []string) (*model.AnalysisResult, error) {
	logger := ctxlog.From(ctx)

	if len(x.command) == 0 {
		return nil, goerr.New("analyzer command is not configured",
			goerr.T(types.ErrTagConfig),
		)
	}

	for _, path := range codeSet {
		if _, err := os.Stat(path); err != nil {
			return nil, goerr.Wrap(err, "code set path is unreadable",
				goerr.T(types.ErrTagAnalysis),
				goerr.V("path", path),
			)
		}
	}

	args := append(append([]string{}, x.command[1:]...), codeSet...)
	cmd := exec.CommandContext(ctx, x.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running analyzer",
		"command", x.command[0],
		"args", args,
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, goerr.Wrap(err, "failed to run analyzer",
				goerr.T(types.ErrTagAnalysis),
				goerr.V("command", x.command[0]),
				goerr.V("stderr", stderr.String()),
			)
		}
		// Analyzer exited non-zero: violations were found. The report
		// on stdout still decides the outcome.
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, goerr.Wrap(err, "failed to parse analyzer report",
			goerr.T(types.ErrTagAnalysis),
			goerr.V("stdout", stdout.String()),
			goerr.V("stderr", stderr.String()),
		)
	}

	if result.Score < 0 || result.Score > 10 {
		return nil, goerr.New("analyzer score out of range",
			goerr.T(types.ErrTagAnalysis),
			goerr.V("score", result.Score),
		)
	}

	logger.Info("Analyzer completed",
		"score", result.Score,
		"violation_count", len(result.Violations),
	)

	return &result, nil
}

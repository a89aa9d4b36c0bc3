package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/infra/lint"
)

func tempSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("print('ok')\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunner_ParsesReport(t *testing.T) {
	ctx := context.Background()
	src := tempSource(t)

	runner := lint.New([]string{"sh", "-c",
		`echo '{"score": 9.1, "violations": [{"file": "main.py", "line": 3, "rule": "C0301", "message": "line too long"}]}'`,
	})

	result, err := runner.Analyze(ctx, []string{src})
	gt.NoError(t, err)
	gt.V(t, result.Score).Equal(9.1)
	gt.V(t, len(result.Violations)).Equal(1)
	gt.V(t, result.Violations[0].Rule).Equal("C0301")
}

func TestRunner_NonZeroExitStillParses(t *testing.T) {
	// Analyzers exit non-zero when violations exist; the report on
	// stdout still decides the outcome
	ctx := context.Background()
	src := tempSource(t)

	runner := lint.New([]string{"sh", "-c",
		`echo '{"score": 4.5, "violations": []}'; exit 4`,
	})

	result, err := runner.Analyze(ctx, []string{src})
	gt.NoError(t, err)
	gt.V(t, result.Score).Equal(4.5)
}

func TestRunner_UnreadablePath(t *testing.T) {
	ctx := context.Background()
	runner := lint.New([]string{"sh", "-c", `echo '{"score": 10}'`})

	_, err := runner.Analyze(ctx, []string{"/no/such/path.py"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagAnalysis))
}

func TestRunner_BrokenReport(t *testing.T) {
	ctx := context.Background()
	src := tempSource(t)

	runner := lint.New([]string{"sh", "-c", `echo 'not json'`})

	_, err := runner.Analyze(ctx, []string{src})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagAnalysis))
}

func TestRunner_ScoreOutOfRange(t *testing.T) {
	ctx := context.Background()
	src := tempSource(t)

	runner := lint.New([]string{"sh", "-c", `echo '{"score": 11.0}'`})

	_, err := runner.Analyze(ctx, []string{src})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagAnalysis))
}

func TestRunner_NoCommand(t *testing.T) {
	ctx := context.Background()
	runner := lint.New(nil)

	_, err := runner.Analyze(ctx, []string{tempSource(t)})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
}

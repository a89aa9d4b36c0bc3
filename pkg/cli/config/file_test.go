package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drover/pkg/cli/config"
)

func TestLoadPipelineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	raw := `
[gate]
command = ["pylint", "--output-format=json"]
paths = ["src", "tools"]
min_score = 7.5

[deploy]
endpoint = "https://example.com/misc/update"
max_attempts = 5
`
	gt.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	file, err := config.LoadPipelineFile(path)
	gt.NoError(t, err)

	var (
		gateCfg   config.Gate
		deployCfg config.Deploy
	)
	gateCfg.MinScore = 8.0
	deployCfg.MaxAttempts = 3

	file.Apply(&gateCfg, &deployCfg)

	gt.V(t, gateCfg.Command).Equal([]string{"pylint", "--output-format=json"})
	gt.V(t, gateCfg.CodeSet).Equal([]string{"src", "tools"})
	gt.V(t, gateCfg.MinScore).Equal(7.5)
	gt.V(t, deployCfg.Endpoint).Equal("https://example.com/misc/update")
	gt.V(t, deployCfg.MaxAttempts).Equal(int64(5))
}

func TestLoadPipelineFile_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	raw := `
[deploy]
endpoint = "https://example.com/misc/update"
`
	gt.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	file, err := config.LoadPipelineFile(path)
	gt.NoError(t, err)

	var (
		gateCfg   config.Gate
		deployCfg config.Deploy
	)
	gateCfg.MinScore = 8.0
	deployCfg.MaxAttempts = 3

	file.Apply(&gateCfg, &deployCfg)

	gt.V(t, gateCfg.MinScore).Equal(8.0)
	gt.V(t, deployCfg.MaxAttempts).Equal(int64(3))
	gt.V(t, deployCfg.Endpoint).Equal("https://example.com/misc/update")
}

func TestLoadPipelineFile_Missing(t *testing.T) {
	_, err := config.LoadPipelineFile("/no/such/file.toml")
	gt.Error(t, err)
}

func TestLoadPipelineFile_Broken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	gt.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := config.LoadPipelineFile(path)
	gt.Error(t, err)
}

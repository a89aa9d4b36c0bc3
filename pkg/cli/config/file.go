package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/m-mizutani/drover/pkg/domain/types"
)

// PipelineFile mirrors the TOML file accepted by `drover run`. Values
// present in the file override flag defaults; the credential never
// comes from the file.
type PipelineFile struct {
	Gate struct {
		Command  []string `toml:"command"`
		Paths    []string `toml:"paths"`
		MinScore *float64 `toml:"min_score"`
	} `toml:"gate"`
	Deploy struct {
		Endpoint    string `toml:"endpoint"`
		MaxAttempts *int64 `toml:"max_attempts"`
	} `toml:"deploy"`
}

// LoadPipelineFile reads and parses a pipeline TOML file
func LoadPipelineFile(path string) (*PipelineFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline config file",
			goerr.T(types.ErrTagConfig),
			goerr.V("path", path),
		)
	}

	var file PipelineFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pipeline config file",
			goerr.T(types.ErrTagConfig),
			goerr.V("path", path),
		)
	}

	return &file, nil
}

// Apply merges file values into the gate and deploy configs
func (f *PipelineFile) Apply(gate *Gate, deploy *Deploy) {
	if len(f.Gate.Command) > 0 {
		gate.Command = f.Gate.Command
	}
	if len(f.Gate.Paths) > 0 {
		gate.CodeSet = f.Gate.Paths
	}
	if f.Gate.MinScore != nil {
		gate.MinScore = *f.Gate.MinScore
	}
	if f.Deploy.Endpoint != "" {
		deploy.Endpoint = f.Deploy.Endpoint
	}
	if f.Deploy.MaxAttempts != nil {
		deploy.MaxAttempts = *f.Deploy.MaxAttempts
	}
}

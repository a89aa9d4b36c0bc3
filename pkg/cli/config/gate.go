package config

import "github.com/urfave/cli/v3"

// Gate holds quality gate configuration
type Gate struct {
	Command  []string
	CodeSet  []string
	MinScore float64
}

// Flags returns CLI flags for quality gate configuration
func (c *Gate) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "analyzer",
			Usage:       "Analyzer command and its fixed arguments",
			Value:       []string{"pylint", "--output-format=json"},
			Destination: &c.Command,
			Sources:     cli.EnvVars("DROVER_ANALYZER"),
		},
		&cli.StringSliceFlag{
			Name:        "code-path",
			Usage:       "Source paths evaluated by the quality gate",
			Destination: &c.CodeSet,
			Sources:     cli.EnvVars("DROVER_CODE_PATH"),
		},
		&cli.FloatFlag{
			Name:        "min-score",
			Usage:       "Minimum analyzer score required to deploy (0-10)",
			Value:       8.0,
			Destination: &c.MinScore,
			Sources:     cli.EnvVars("DROVER_MIN_SCORE"),
		},
	}
}

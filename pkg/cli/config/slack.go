package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/infra/audit"
)

// Slack holds Slack audit sink configuration
type Slack struct {
	Token   string
	Channel string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token for audit notifications",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DROVER_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for audit notifications",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("DROVER_SLACK_CHANNEL"),
		},
	}
}

// Configure returns a Slack audit sink, or nil when not configured
func (c *Slack) Configure() *audit.SlackSink {
	if c.Token == "" || c.Channel == "" {
		return nil
	}
	return audit.NewSlackSink(c.Token, c.Channel)
}

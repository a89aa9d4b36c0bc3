package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/infra/deploy"
)

// Deploy holds deployment endpoint configuration
type Deploy struct {
	Endpoint       string
	AdminKey       string
	MaxAttempts    int64
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	AttemptTimeout time.Duration
}

// Flags returns CLI flags for deployment configuration. The admin key
// is deliberately not required here: a missing credential surfaces as
// an auth failure at run time, before any network call.
func (c *Deploy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "deploy-endpoint",
			Usage:       "Deployment control endpoint URL",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("DROVER_DEPLOY_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "admin-key",
			Usage:       "X-Admin-Key credential for the deployment endpoint",
			Destination: &c.AdminKey,
			Sources:     cli.EnvVars("DROVER_ADMIN_KEY"),
		},
		&cli.Int64Flag{
			Name:        "max-attempts",
			Usage:       "Maximum delivery attempts",
			Value:       3,
			Destination: &c.MaxAttempts,
			Sources:     cli.EnvVars("DROVER_MAX_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:        "backoff-base",
			Usage:       "Base wait between delivery attempts",
			Value:       time.Second,
			Destination: &c.BackoffBase,
			Sources:     cli.EnvVars("DROVER_BACKOFF_BASE"),
		},
		&cli.DurationFlag{
			Name:        "backoff-max",
			Usage:       "Maximum wait between delivery attempts",
			Value:       30 * time.Second,
			Destination: &c.BackoffMax,
			Sources:     cli.EnvVars("DROVER_BACKOFF_MAX"),
		},
		&cli.DurationFlag{
			Name:        "attempt-timeout",
			Usage:       "Timeout of a single delivery attempt",
			Value:       10 * time.Second,
			Destination: &c.AttemptTimeout,
			Sources:     cli.EnvVars("DROVER_ATTEMPT_TIMEOUT"),
		},
	}
}

// Configure builds the deployment notifier. The endpoint must be set;
// an unset endpoint is a configuration mistake, not a delivery failure.
func (c *Deploy) Configure() (*deploy.Notifier, error) {
	if c.Endpoint == "" {
		return nil, goerr.New("deploy-endpoint is not configured",
			goerr.T(types.ErrTagConfig),
		)
	}
	return deploy.New(c.Endpoint, c.AdminKey,
		deploy.WithMaxAttempts(int(c.MaxAttempts)),
		deploy.WithBackoff(deploy.Exponential(c.BackoffBase, c.BackoffMax)),
		deploy.WithAttemptTimeout(c.AttemptTimeout),
	), nil
}

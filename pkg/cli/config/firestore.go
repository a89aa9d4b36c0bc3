package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/infra/history"
)

// Firestore holds run history store configuration
type Firestore struct {
	ProjectID  string
	Collection string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project for run history, history disabled when empty",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("DROVER_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding pipeline runs",
			Value:       "pipeline_runs",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("DROVER_FIRESTORE_COLLECTION"),
		},
	}
}

// Configure returns a Firestore history store, or nil when not configured
func (c *Firestore) Configure(ctx context.Context) (*history.Firestore, error) {
	if c.ProjectID == "" {
		return nil, nil
	}
	return history.NewFirestore(ctx, c.ProjectID, c.Collection)
}

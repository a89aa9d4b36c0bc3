package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/cli/config"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

func cmdHistory() *cli.Command {
	var (
		firestoreCfg config.Firestore
		limit        int64
	)

	flags := append(firestoreCfg.Flags(),
		&cli.Int64Flag{
			Name:        "limit",
			Usage:       "Maximum number of runs to list",
			Value:       20,
			Destination: &limit,
		},
	)

	return &cli.Command{
		Name:  "history",
		Usage: "List recent pipeline runs",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to create history store")
			}
			if repo == nil {
				return goerr.New("history requires --firestore-project-id")
			}
			defer repo.Close()

			runs, err := repo.List(ctx, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list pipeline runs")
			}

			for _, run := range runs {
				printRun(run)
			}
			return nil
		},
	}
}

func printRun(run *model.PipelineRun) {
	status := string(run.Status())
	switch run.Status() {
	case model.StatusSuccess:
		status = color.GreenString(status)
	case model.StatusFailed:
		status = color.RedString(status)
	default:
		status = color.YellowString(status)
	}

	score := "-"
	if run.Report != nil {
		score = fmt.Sprintf("%.2f", run.Report.Score)
	}

	fmt.Printf("%s  %-9s  %-30s  %-20s  score=%s\n",
		run.StartedAt.Format("2006-01-02 15:04:05"),
		status,
		run.Event.Repository,
		run.Event.SourceRef,
		score,
	)
}

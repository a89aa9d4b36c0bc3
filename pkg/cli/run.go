package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/cli/config"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/infra/audit"
	"github.com/m-mizutani/drover/pkg/infra/lint"
	"github.com/m-mizutani/drover/pkg/usecase"
)

// Exit codes of the one-shot runner
const (
	exitDeployed     = 0
	exitGateFailed   = 1
	exitNotifyFailed = 2
	exitConfigError  = 3
)

func cmdRun() *cli.Command {
	var (
		gateCfg    config.Gate
		deployCfg  config.Deploy
		slackCfg   config.Slack
		configPath string
		ref        string
		actor      string
	)

	flags := gateCfg.Flags()
	flags = append(flags, deployCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Pipeline TOML config file",
			Destination: &configPath,
			Sources:     cli.EnvVars("DROVER_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Source ref the run deploys",
			Value:       "refs/heads/main",
			Destination: &ref,
			Sources:     cli.EnvVars("DROVER_REF"),
		},
		&cli.StringFlag{
			Name:        "actor",
			Usage:       "Identity recorded as the trigger actor",
			Value:       "cli",
			Destination: &actor,
			Sources:     cli.EnvVars("DROVER_ACTOR"),
		},
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run one pipeline and exit with the outcome",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if configPath != "" {
				file, err := config.LoadPipelineFile(configPath)
				if err != nil {
					return cli.Exit(err.Error(), exitConfigError)
				}
				file.Apply(&gateCfg, &deployCfg)
			}

			sinks := []interfaces.AuditSink{audit.NewLogSink()}
			if slackSink := slackCfg.Configure(); slackSink != nil {
				sinks = append(sinks, slackSink)
			}

			notifier, err := deployCfg.Configure()
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			gate := usecase.NewQualityGate(lint.New(gateCfg.Command))
			pipelineUC := usecase.NewPipeline(gate, notifier,
				usecase.WithCodeSet(gateCfg.CodeSet),
				usecase.WithThreshold(gateCfg.MinScore),
				usecase.WithAuditSinks(sinks...),
			)

			event := &model.TriggerEvent{
				ID:         uuid.NewString(),
				SourceRef:  ref,
				Actor:      actor,
				ReceivedAt: time.Now(),
			}

			run, err := pipelineUC.Run(ctx, event)
			if err != nil {
				logger.Error("Pipeline failed before deployment", "error", err)
				return cli.Exit(err.Error(), exitCodeOf(err))
			}

			printOutcome(run)

			if code := exitCodeForRun(run); code != exitDeployed {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}

// exitCodeForRun maps a finished run to the process exit code: deployed,
// gate failure, or exhausted/rejected delivery.
func exitCodeForRun(run *model.PipelineRun) int {
	switch run.Status() {
	case model.StatusSuccess:
		return exitDeployed
	case model.StatusAborted:
		return exitGateFailed
	default:
		return exitNotifyFailed
	}
}

// exitCodeOf maps fatal pipeline errors to exit codes. Analysis,
// config and auth failures all halt before deployment.
func exitCodeOf(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagAuth),
		goerr.HasTag(err, types.ErrTagConfig),
		goerr.HasTag(err, types.ErrTagAnalysis):
		return exitConfigError
	}
	return exitNotifyFailed
}

func printOutcome(run *model.PipelineRun) {
	var c *color.Color
	switch run.Status() {
	case model.StatusSuccess:
		c = color.New(color.FgGreen, color.Bold)
	case model.StatusFailed:
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgYellow, color.Bold)
	}

	c.Printf("%s", run.Status())
	if run.Report != nil {
		fmt.Printf("  score %.2f (threshold %.2f)", run.Report.Score, run.Report.Threshold)
	}
	if run.Outcome != nil && run.Outcome.Reason != "" {
		fmt.Printf("  %s", run.Outcome.Reason)
	}
	fmt.Println()
}

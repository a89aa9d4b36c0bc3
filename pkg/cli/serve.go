package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/cli/config"
	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/infra/audit"
	"github.com/m-mizutani/drover/pkg/infra/history"
	"github.com/m-mizutani/drover/pkg/infra/lint"
	"github.com/m-mizutani/drover/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		webhookCfg   config.Webhook
		gateCfg      config.Gate
		deployCfg    config.Deploy
		slackCfg     config.Slack
		firestoreCfg config.Firestore
	)

	flags := serverCfg.Flags()
	flags = append(flags, webhookCfg.Flags()...)
	flags = append(flags, gateCfg.Flags()...)
	flags = append(flags, deployCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, firestoreCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting drover server",
				slog.String("addr", serverCfg.Addr),
				slog.String("branch", webhookCfg.Branch),
			)

			sinks := []interfaces.AuditSink{audit.NewLogSink()}
			if slackSink := slackCfg.Configure(); slackSink != nil {
				sinks = append(sinks, slackSink)
			}

			pipelineOpts := []usecase.PipelineOption{
				usecase.WithCodeSet(gateCfg.CodeSet),
				usecase.WithThreshold(gateCfg.MinScore),
				usecase.WithAuditSinks(sinks...),
			}

			historyRepo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to create history store")
			}
			if historyRepo != nil {
				defer func() {
					if err := historyRepo.Close(); err != nil {
						logger.Warn("Failed to close history store", slog.Any("error", err))
					}
				}()
				pipelineOpts = append(pipelineOpts, usecase.WithHistory(historyRepo))
			} else {
				pipelineOpts = append(pipelineOpts, usecase.WithHistory(history.NewMemory(100)))
			}

			notifier, err := deployCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure deployment notifier")
			}

			gate := usecase.NewQualityGate(lint.New(gateCfg.Command))
			pipelineUC := usecase.NewPipeline(gate, notifier, pipelineOpts...)

			server, err := controller.NewServer(
				ctx,
				pipelineUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(webhookCfg.Secret),
				controller.WithBranch(webhookCfg.Branch),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

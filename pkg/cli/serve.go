package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/mnemos/pkg/cli/config"
	httpctrl "github.com/secmon-lab/mnemos/pkg/controller/http"
	"github.com/secmon-lab/mnemos/pkg/service/llm"
	"github.com/secmon-lab/mnemos/pkg/service/worker"
	"github.com/secmon-lab/mnemos/pkg/usecase"
	"github.com/secmon-lab/mnemos/pkg/utils/logging"
	"github.com/secmon-lab/mnemos/pkg/utils/safe"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var historyRetention time.Duration
	var retentionInterval time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var personaCfg config.Persona
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MNEMOS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "history-retention",
			Usage:       "Delete messages older than this duration (0 disables pruning)",
			Sources:     cli.EnvVars("MNEMOS_HISTORY_RETENTION"),
			Destination: &historyRetention,
		},
		&cli.DurationFlag{
			Name:        "retention-interval",
			Usage:       "How often to sweep for expired messages",
			Value:       time.Hour,
			Sources:     cli.EnvVars("MNEMOS_RETENTION_INTERVAL"),
			Destination: &retentionInterval,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, personaCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			persona, err := personaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona")
			}
			logging.Default().Info("Persona loaded", "name", persona.Name)

			uc := usecase.New(repo, llm.New(llmClient), usecase.WithPersona(persona))

			var retentionWorker *worker.RetentionWorker
			if historyRetention > 0 {
				retentionWorker = worker.NewRetentionWorker(repo, historyRetention, retentionInterval)
				if err := retentionWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start retention worker")
				}
			}

			server := httpctrl.New(addr, uc)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.Run(); err != nil {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if retentionWorker != nil {
					retentionWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

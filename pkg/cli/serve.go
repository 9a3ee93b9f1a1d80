package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/cli/config"
	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/infra/llm"
	"github.com/m-mizutani/drover/pkg/infra/metastore"
	"github.com/m-mizutani/drover/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		webhookCfg config.Webhook
		llmCfg     config.LLM
		storageCfg config.Storage
		sentryCfg  config.Sentry
	)

	flags := serverCfg.Flags()
	flags = append(flags, webhookCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting drover server",
				slog.String("addr", serverCfg.Addr),
				slog.String("default_provider", llmCfg.DefaultProvider),
				slog.String("runs_dir", storageCfg.RunsDir),
				slog.Bool("webhook_verification", webhookCfg.Secret != ""),
			)

			if sentryCfg.DSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     sentryCfg.DSN,
					Release: types.Version,
				}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
			}

			// Create infra components
			registry := llm.NewRegistry(llmCfg.Config())
			store := metastore.New(storageCfg.RunsDir)

			// Create use cases
			webhookUC := usecase.NewWebhook()
			llmUC, err := usecase.NewLLM(registry, store)
			if err != nil {
				return goerr.Wrap(err, "failed to create LLM use case")
			}
			approveUC := usecase.NewApprove(store, storageCfg.Project)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				llmUC,
				approveUC,
				store,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(webhookCfg.Secret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
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

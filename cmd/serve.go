package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/app"
	"github.com/bilikmatch/seogen/internal/config"
	"github.com/bilikmatch/seogen/internal/logging"
)

// newServeCmd creates and configures the 'serve' subcommand, which
// runs the HTTP server and the change-event consumer until the
// process receives an interrupt or termination signal.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the snapshot generator service",
		Long: `Runs the change-event consumer and the on-demand HTTP endpoints.
The consumer regenerates entity snapshots as writes arrive; the HTTP
endpoints trigger full regeneration and sitemap rebuilds.`,

		RunE: runServeCommand,
	}
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application services: %w", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run service: %w", err)
	}

	logger.Info("Service stopped.", zap.String("reason", "signal"))
	return nil
}

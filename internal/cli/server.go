package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/account_service/internal/app"
	"github.com/lewisedginton/account_service/pkg/logger"
	"github.com/lewisedginton/account_service/pkg/metrics"
	"github.com/lewisedginton/account_service/pkg/utils"
)

// ServerCommand returns a command for server operations
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Server operations",
		Subcommands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start the account service",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Keep accounts in memory instead of PostgreSQL",
					},
				},
				Action: serverStartAction,
			},
		},
	}
}

func serverStartAction(ctx *cli.Context) error {
	log := getLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		log.Error("Failed to load config", logger.ErrorField(err))
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.LogConfig(log)

	m := metrics.NewMetrics(cfg.Metrics.EnableHTTPMetrics, log)
	opts := []app.Option{app.WithMetrics(m)}
	if ctx.Bool("in-memory") {
		log.Warn("Accounts are kept in memory and lost on exit")
		opts = append(opts, app.WithDataLayer(app.NewMemoryDataLayer()))
	}

	a := app.New(cfg, log, opts...)

	// A failed bootstrap ends the process with app.ExitCodeDatabaseInit.
	if err := a.Bootstrap(ctx.Context); err != nil {
		return fmt.Errorf("failed to initialise service: %w", err)
	}

	errChan, closer, gracefulCloser, err := a.Listen()
	if err != nil {
		log.Error("Failed to start server", logger.ErrorField(err))
		return fmt.Errorf("failed to start server: %w", err)
	}

	channels := []chan error{errChan}
	metricsCtx, stopMetrics := context.WithCancel(ctx.Context)
	defer stopMetrics()
	if cfg.Metrics.ExposeMetrics {
		channels = append(channels, m.Listen(metricsCtx, cfg.Metrics.Port))
	}

	log.Info("HTTP service started successfully")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	mergedErrChan := utils.MergeErrorChans(channels...)

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.StringField("signal", sig.String()))
		gracefulCloser()
		log.Info("Server exited gracefully")
	case <-ctx.Context.Done():
		gracefulCloser()
		log.Info("Server exited gracefully")
	case err, ok := <-mergedErrChan:
		if ok && err != nil {
			log.Error("Fatal server error occurred", logger.ErrorField(err))
			closer()
			return fmt.Errorf("server error: %w", err)
		}
		log.Info("Server exited normally")
	}

	return nil
}

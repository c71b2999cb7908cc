// Package cli holds the account-service command line.
package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/account_service/pkg/logger"
)

const serviceName = "account-service"

// NewApp builds the command line application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    serviceName,
		Usage:   "Account REST service with security headers and CORS",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "config-file",
				Value:   "",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			log := logger.NewLogger(logger.Config{
				Level:   logger.ParseLevel(ctx.String("log-level")),
				Format:  ctx.String("log-format"),
				Service: serviceName,
				Output:  ctx.App.ErrWriter,
			})

			// Store logger in context for commands to use
			ctx.App.Metadata = map[string]interface{}{
				loggerMetadataKey: log,
			}
			return nil
		},
		Commands: []*cli.Command{
			ConfigCommand(),
			ServerCommand(),
			VerifyCommand(),
		},
	}
}

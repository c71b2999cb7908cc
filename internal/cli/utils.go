package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/account_service/internal/config"
	"github.com/lewisedginton/account_service/pkg/logger"
)

const loggerMetadataKey = "logger"

// getLogger retrieves the logger from the CLI context metadata
func getLogger(ctx *cli.Context) logger.Logger {
	if ctx.App.Metadata != nil {
		if log, ok := ctx.App.Metadata[loggerMetadataKey].(logger.Logger); ok {
			return log
		}
	}

	// Fallback to default logger if not found
	return logger.NewLogger(logger.Config{
		Level:   logger.InfoLevel,
		Format:  "json",
		Service: serviceName,
	})
}

// loadConfig reads the file named by --config-file, if any, and overlays the
// environment. Load runs Config.Validate.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	return config.Load(ctx.String("config-file"))
}

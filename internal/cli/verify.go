package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/account_service/internal/verify"
)

// VerifyCommand returns a command that prints the security and CORS headers
// of a running service
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Print the security and CORS headers of a running service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Value:   verify.DefaultBaseURL,
				Usage:   "Base URL of the service",
				EnvVars: []string{"VERIFY_BASE_URL"},
			},
			&cli.StringFlag{
				Name:  "origin",
				Value: verify.DefaultOrigin,
				Usage: "Origin sent with the CORS requests",
			},
		},
		Action: func(ctx *cli.Context) error {
			return verify.Run(ctx.Context, verify.Options{
				BaseURL: ctx.String("base-url"),
				Origin:  ctx.String("origin"),
				Out:     ctx.App.Writer,
			})
		},
	}
}

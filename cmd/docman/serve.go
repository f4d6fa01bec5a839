package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"go-docman-client/internal/app"
)

func newServeFakeCmd() *cobra.Command {
	opts := app.Options{}

	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run an in-memory DocMan API over mutual TLS for local development.",
		Long: `Starts an in-memory DocMan API that requires a client certificate, and
writes appsettings.json, docman.env, client.pfx and ca.pem to --out.
Point the client at it with --settings <out>/appsettings.json --env-file <out>/docman.env.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Logger = slog.Default()

			a, err := app.New(opts)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Addr, "addr", "127.0.0.1:8443", "listen address")
	flags.StringVar(&opts.OutputDir, "out", "./docman-local", "directory for the generated client files")
	flags.StringVar(&opts.Instance, "instance", "Local", "TargetedVoyagerInstance written to the settings file")
	flags.StringVar(&opts.Environment, "environment", "Development", "TargetedVoyagerEnvironment written to the settings file")
	flags.StringVar(&opts.BasePath, "base-path", "/api/v1", "route prefix")
	flags.StringVar(&opts.ConnectionName, "connection-name", "DocManLocal", "name reported by the connection heartbeat")
	flags.StringVar(&opts.PFXPassword, "pfx-password", "local-pfx-password", "password of the generated client.pfx")
	flags.StringVar(&opts.DecryptionKey, "decryption-key", "local-decryption-key", "secret used to encrypt the password in docman.env")
	flags.IntVar(&opts.RateLimitRPM, "rate-limit", 0, "requests per minute allowed per client certificate (0 disables)")
	flags.DurationVar(&opts.RequestTimeout, "request-timeout", 25*time.Second, "per-request timeout (0 disables)")

	return cmd
}

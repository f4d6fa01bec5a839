package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"go-docman-client/internal/logger"
	"go-docman-client/pkg/docman"
)

type rootOptions struct {
	settingsPath string
	envFiles     []string
	logLevel     string
	logFormat    string
	verify       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		slog.Error("docman command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "docman",
		Short:         "Call the DocMan document API over mutual TLS.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if len(opts.envFiles) > 0 {
				if err := godotenv.Load(opts.envFiles...); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			} else {
				_ = godotenv.Load()
			}

			// Read after the dotenv load so DOCMAN_LOG_LEVEL may come from a file.
			if !cmd.Flags().Changed("log-level") {
				opts.logLevel = os.Getenv("DOCMAN_LOG_LEVEL")
			}
			level, err := logger.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger.New(stderr, opts.logFormat, level))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.settingsPath, "settings", "", "settings file with TargetedVoyagerInstance and TargetedVoyagerEnvironment (default $DOCMAN_SETTINGS_FILE or appsettings.json)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load before resolving configuration (default .env when present)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error (default $DOCMAN_LOG_LEVEL, then info)")
	flags.StringVar(&opts.logFormat, "log-format", "pretty", "pretty or json")
	flags.BoolVar(&opts.verify, "verify", false, "call the heartbeat before running the command")

	root.AddCommand(
		newHeartbeatCmd(opts, stdout),
		newFilesCmd(opts, stdout),
		newFoldersCmd(opts, stdout),
		newEncryptPasswordCmd(stdout),
		newServeFakeCmd(),
	)

	return root
}

func (o *rootOptions) register(ctx context.Context) (*docman.Services, error) {
	return docman.Register(ctx, docman.Options{
		SettingsPath:     o.settingsPath,
		Logger:           slog.Default(),
		VerifyConnection: o.verify,
	})
}

// printEnvelope writes the envelope as JSON and returns the call error so
// the process exit status reflects it.
func printEnvelope[T any](w io.Writer, resp *docman.Response[T], callErr error) error {
	if resp != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
	return callErr
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"climate-api/internal/app"
	"climate-api/internal/config"
	"climate-api/internal/logging"
)

const appName = "climate-api"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Read-only HTTP API over Hawaii weather station observations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newSchemaCmd())
	return rootCmd
}

type serveFlags struct {
	host  string
	port  string
	debug bool
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			cfg = f.apply(cfg)
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&f.host, "host", "", "listen host, overrides HTTP_ADDR")
	cmd.Flags().StringVarP(&f.port, "port", "p", "", "listen port, overrides HTTP_ADDR")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log at debug level and log every SQL statement")
	return cmd
}

// apply layers command line flags over the loaded configuration.
func (f serveFlags) apply(cfg config.Config) config.Config {
	if f.host != "" || f.port != "" {
		host, port, err := net.SplitHostPort(cfg.HTTPAddr)
		if err != nil {
			host, port = "", "5000"
		}
		if f.host != "" {
			host = f.host
		}
		if f.port != "" {
			port = f.port
		}
		cfg.HTTPAddr = net.JoinHostPort(host, port)
	}
	if f.debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.LogSQL = true
	}
	return cfg
}

func serve(parent context.Context, cfg config.Config) error {
	slog.SetDefault(logging.New(os.Stdout, cfg, version, appName))

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		return err
	}

	slog.Info("shutting down")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	serveme "github.com/FortovEgor/ServeMe"
	"github.com/FortovEgor/ServeMe/config"
	"github.com/FortovEgor/ServeMe/telemetry"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "servemed",
	Short: "ServeMe HTTP server daemon",
	Long: `servemed serves a fixed routing table over HTTP/1.1.

Routes come from a YAML manifest named by routes_file. Everything else
(listen address, logging, caching, telemetry) comes from serveme.yaml or
SERVEME_* environment variables.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to serveme.yaml (default: search the working directory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []serveme.Option{
		serveme.WithHost(cfg.Host),
		serveme.WithPort(cfg.Port),
		serveme.WithLogFile(cfg.LogFile),
		serveme.WithLogLevel(cfg.MinLevel()),
	}
	if cfg.LogMaxSize > 0 {
		opts = append(opts, serveme.WithLogRotation(cfg.LogMaxSize))
	}
	if !cfg.Syslog {
		opts = append(opts, serveme.WithoutSyslog())
	}
	if !cfg.Cache {
		opts = append(opts, serveme.WithoutCache())
	}
	if cfg.LegacyCacheKeys {
		opts = append(opts, serveme.WithLegacyCacheKeys())
	}

	if cfg.Telemetry.Enabled {
		otelShutdown, err := telemetry.Setup(ctx, telemetry.Config{
			Endpoint:    cfg.Telemetry.Endpoint,
			ServiceName: cfg.Telemetry.ServiceName,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				fmt.Fprintln(os.Stderr, "servemed: telemetry shutdown:", err)
			}
		}()

		cacheMetrics, err := telemetry.NewCacheMetrics(otel.Meter("github.com/FortovEgor/ServeMe"))
		if err != nil {
			return err
		}
		opts = append(opts,
			serveme.WithLogHandler(telemetry.NewLogHandler("servemed")),
			serveme.WithCacheMetrics(cacheMetrics),
		)
	}

	app, err := serveme.New(opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.RoutesFile != "" {
		routes, err := config.LoadRoutes(cfg.RoutesFile)
		if err != nil {
			return err
		}
		for _, route := range routes {
			app.Register(route.Path, route.ParsedMethod(), route.Source())
		}
		app.Logger().Infof("loaded %d routes from %s", len(routes), cfg.RoutesFile)
	}

	serverErrorChannel := make(chan error, 1)
	go func() {
		serverErrorChannel <- app.Run()
	}()

	// Wait for interruption.
	select {
	case err := <-serverErrorChannel:
		return err
	case <-ctx.Done():
		// Stop receiving signal notifications as soon as possible.
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return errors.Join(err, <-serverErrorChannel)
	}
	return <-serverErrorChannel
}

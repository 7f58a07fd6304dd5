package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"go.opentelemetry.io/otel"

	serveme "github.com/FortovEgor/ServeMe"
	"github.com/FortovEgor/ServeMe/telemetry"
)

const name = "github.com/FortovEgor/ServeMe/example"

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() (err error) {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    "localhost:4317",
		ServiceName: "serveme-example",
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, otelShutdown(context.Background()))
	}()

	cacheMetrics, err := telemetry.NewCacheMetrics(otel.Meter(name))
	if err != nil {
		return err
	}

	app, err := serveme.New(
		serveme.WithPort(8080),
		serveme.WithLogHandler(telemetry.NewLogHandler(name)),
		serveme.WithCacheMetrics(cacheMetrics),
	)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.AddEndpoint("/", "<h1>Hello, World!</h1>", "GET"); err != nil {
		return err
	}
	if err := app.AddEndpoint("/", "Got your POST", "POST"); err != nil {
		return err
	}
	if err := app.AddEndpoint("/motd", "@file:motd.txt", "GET"); err != nil {
		return err
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

	return app.Shutdown(context.Background())
}

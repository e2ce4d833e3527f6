// Command server runs the InstaWinx web application.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instawinx/internal/config"
	"instawinx/internal/middleware"
	"instawinx/internal/observability"
	"instawinx/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.Logger = middleware.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(middleware.Logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := shutdownOnSignal(sigChan, shutdownTimeout,
		namedStep{"server", srv.Shutdown},
		namedStep{"tracing", shutdownTracing},
	)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	// Listen returns as soon as the app stops; wait for the remaining steps.
	<-done
}

const shutdownTimeout = 10 * time.Second

type namedStep struct {
	name string
	run  func(context.Context) error
}

// shutdownOnSignal runs steps in order after the first signal, sharing one
// timeout. The returned channel is closed once every step has returned.
func shutdownOnSignal(sig <-chan os.Signal, timeout time.Duration, steps ...namedStep) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sig

		middleware.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		for _, step := range steps {
			if err := step.run(ctx); err != nil {
				middleware.Logger.Error(step.name+" shutdown error", slog.String("error", err.Error()))
			}
		}
	}()
	return done
}

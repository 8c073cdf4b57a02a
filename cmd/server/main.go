package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"patentdesk/internal/platform/config"
	"patentdesk/internal/platform/httpserver"
	"patentdesk/internal/platform/logger"
	"patentdesk/internal/platform/tracing"
)

// main loads configuration, wires the admin API and runs the HTTP server
// until SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("patentdesk stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	tp, err := tracing.New(cfg.Tracing, os.Stdout)
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, infra, tp, log)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server.Addr, app.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting patentdesk", "addr", cfg.Server.Addr, "backend", infra.backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if infra.kafka != nil {
			if err := infra.kafka.Flush(shutdownCtx); err != nil {
				log.Warn("kafka flush failed", "error", err)
			}
		}
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			log.Warn("tracer flush failed", "error", err)
		}
		return nil
	})
	return g.Wait()
}

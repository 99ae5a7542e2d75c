package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/eventhub/internal/config"
	"github.com/deppfellow/eventhub/internal/database"
	"github.com/deppfellow/eventhub/internal/handler"
	"github.com/deppfellow/eventhub/internal/logger"
	"github.com/deppfellow/eventhub/internal/model"
	"github.com/deppfellow/eventhub/internal/repository"
	"github.com/deppfellow/eventhub/internal/router"
	"github.com/deppfellow/eventhub/internal/server"
	"github.com/deppfellow/eventhub/internal/service"
	"github.com/rs/zerolog"
)

const (
	indexTimeout    = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "eventhub: %v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup, so New Relic is flushed even when
// start-up fails.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize new relic: %w", err)
	}
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if err := serve(cfg, &log, loggerService); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}

	return nil
}

func serve(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	err = database.EnsureIndexes(indexCtx, log, srv.DB.DB, model.Resources)
	cancel()
	if err != nil {
		shutdown()
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	repos := repository.NewRepositories(srv)

	if srv.Job != nil {
		srv.Job.InitHandlers(repos.Audit)
		if err := srv.Job.Start(); err != nil {
			shutdown()
			return fmt.Errorf("failed to start job worker: %w", err)
		}
	}

	services, err := service.NewService(srv, repos)
	if err != nil {
		shutdown()
		return fmt.Errorf("failed to create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-serveErr:
		shutdown()
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdown()
	log.Info().Msg("server exited properly")

	return nil
}

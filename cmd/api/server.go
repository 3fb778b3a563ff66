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

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/pkg/container"
)

// Serve build container, chạy HTTP server và chờ SIGINT/SIGTERM để shutdown
func Serve(cfg *config.Config) error {
	appContainer, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer appContainer.Cleanup()

	router := SetupRouter(appContainer)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.App.Port),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		log.Info().Msgf("Health Check: http://localhost:%s/api/v1/health", cfg.App.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}

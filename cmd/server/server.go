package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// newHTTPServer builds the http.Server with the configured timeouts.
func (app *application) newHTTPServer(handler http.Handler) *http.Server {
	cfg := app.config.Server
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// startHTTPServer listens on the configured port and serves until ctx is done.
func (app *application) startHTTPServer(ctx context.Context, handler http.Handler) error {
	srv := app.newHTTPServer(handler)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	return app.serve(ctx, srv, ln)
}

// serve runs srv on ln and performs a graceful shutdown once ctx is cancelled.
// In-flight requests get up to Server.ShutdownTimeout to complete.
func (app *application) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			app.logger.Error("server error", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server", "timeout", app.config.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}

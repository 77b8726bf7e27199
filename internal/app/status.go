package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/scalgrid/internal/runner"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler serves the current batch snapshot as JSON.
func (a *App) statusHandler(progress *runner.Progress) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(progress.Snapshot()); err != nil {
			a.logger.Error("Failed to encode status.", "error", err)
		}
	}
}

func (a *App) statusMux(progress *runner.Progress) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /status", a.statusHandler(progress))
	return mux
}

// startStatusServer binds the port synchronously and serves in the background.
func (a *App) startStatusServer(ctx context.Context, port int, progress *runner.Progress) (*http.Server, error) {
	a.logger.Debug("Configuring status server.")

	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           a.statusMux(progress),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		a.logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
	return srv, nil
}

func (a *App) closeStatusServer(ctx context.Context, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down status server...")
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Error("Status server shutdown failed", "error", err)
		return
	}
	a.logger.Debug("Status server shut down gracefully.")
}

// Package server exposes the relay, the parse pipeline and the current
// event slot over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pfrederiksen/add2cal/internal/calendar"
	"github.com/pfrederiksen/add2cal/internal/event"
	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/metrics"
	"github.com/pfrederiksen/add2cal/internal/relay"
	"github.com/pfrederiksen/add2cal/internal/session"
)

// Fetcher loads and parses one event page
type Fetcher interface {
	FetchEvent(ctx context.Context, pageURL string) (*event.Event, error)
}

// Deps are the collaborators behind the routes
type Deps struct {
	Relay    *relay.Handler
	Fetcher  Fetcher
	Session  *session.Session
	Calendar *calendar.Calendar
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Router registers every route on a new mux.
func (d *Deps) Router() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/proxy", d.Relay)
	mux.HandleFunc("GET /api/event", d.HandleEvent)
	mux.HandleFunc("GET /api/event.ics", d.HandleICS)
	mux.HandleFunc("GET /share", d.HandleShare)
	mux.HandleFunc("GET /api/current", d.HandleCurrent)
	mux.HandleFunc("POST /api/retry", d.HandleRetry)
	mux.HandleFunc("GET /healthz", d.HandleHealthz)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	return RequestLog(d.now)(mux)
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Serve runs an http.Server on addr until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPServer serves the player API.
type HTTPServer struct {
	server  *http.Server
	port    int
	handler http.Handler
	prober  HealthProber
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, handler http.Handler, prober HealthProber) *HTTPServer {
	return &HTTPServer{
		port:    port,
		handler: handler,
		prober:  prober,
	}
}

// Setup mounts the API and a liveness route.
func (h *HTTPServer) Setup() error {
	mux := http.NewServeMux()
	mux.Handle("/v1/", h.handler)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	h.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", h.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// Handler returns the configured mux.
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.prober != nil && !h.prober.IsHealthy(r.Context()) {
		http.Error(w, "campaign store unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Start begins serving the API on the configured port.
func (h *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("HTTP API listening on port %d", h.port)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down HTTP server...")
	if err := h.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("HTTP server stopped")
	return nil
}

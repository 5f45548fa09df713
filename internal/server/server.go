// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"contractrag/internal/service"
)

// maxUploadBytes caps the multipart request size for document uploads.
const maxUploadBytes = 16 << 20

// Server is the HTTP front-end around the orchestrator.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	svc        *service.Service
	logger     *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Host string
	Port int
}

// New creates a configured HTTP server.
func New(cfg Config, svc *service.Service, logger *slog.Logger) *Server {
	s := &Server{
		router: http.NewServeMux(),
		svc:    svc,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /api/health", s.handleHealth)
	s.router.HandleFunc("GET /api/files", s.handleListFiles)
	s.router.HandleFunc("POST /api/upload", s.handleUpload)
	s.router.HandleFunc("POST /api/ask", s.handleAsk)
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"
)

type Server struct {
	httpServer *http.Server
}

// New builds the HTTP server with all routes and middleware wired.
func New(cfg Config, conn *sql.DB, store *ObjectStore) *Server {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", indexHandler())
	mux.Handle("POST /upload", cfg.uploadHandler(conn, store))
	mux.Handle("GET /download/{file_number}", cfg.downloadHandler(conn, store))
	mux.Handle("GET /download-by-filename/{filename}", cfg.downloadByFilenameHandler(conn, store))

	mux.Handle("GET /health", healthHandler(conn, store))
	mux.Handle("GET /ready", readyHandler(conn))
	mux.Handle("GET /live", liveHandler())
	mux.Handle("GET /metrics", metricsHandler())

	// Wrap middleware: requestID -> logging -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: s}
}

// Handler exposes the fully wired handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

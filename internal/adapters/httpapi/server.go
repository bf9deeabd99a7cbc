package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerOptions configures the HTTP listener
type ServerOptions struct {
	ListenAddress   string
	Path            string
	MetricsPath     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server exposes the feed handler over HTTP
type Server struct {
	opts     ServerOptions
	handler  http.Handler
	metrics  http.Handler
	logger   *zap.Logger
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new HTTP server. metrics may be nil to disable the
// metrics route.
func NewServer(opts ServerOptions, handler http.Handler, metrics http.Handler, logger *zap.Logger) *Server {
	return &Server{
		opts:    opts,
		handler: handler,
		metrics: metrics,
		logger:  logger,
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.Handle(s.opts.Path, s.handler)
	if s.metrics != nil && s.opts.MetricsPath != "" {
		mux.Handle(s.opts.MetricsPath, s.metrics)
	}

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	ln, err := net.Listen("tcp", s.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddress, err)
	}
	s.listener = ln

	s.logger.Info("Feed server starting",
		zap.String("address", ln.Addr().String()),
		zap.String("path", s.opts.Path))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests until the shutdown timeout elapses
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx := context.Background()
	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ShutdownTimeout)
		defer cancel()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"task-tracker/internal/config"
	"task-tracker/internal/metrics"
)

// Server wraps the HTTP listener serving the task pages
type Server struct {
	cfg     config.Config
	handler *Handler
	metrics *metrics.Metrics
	log     *logrus.Logger

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	done     chan error
}

// Option customizes server construction
type Option func(*Server)

// WithServerLogger overrides the standard logrus logger
func WithServerLogger(log *logrus.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithServerMetrics exposes m on the configured metrics path
func WithServerMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer prepares a server for handler using cfg
func NewServer(cfg config.Config, handler *Handler, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the full middleware-wrapped handler tree
func (s *Server) Handler() http.Handler {
	mux := s.handler.Routes()
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics.Handler())
	}

	middlewares := []Middleware{RequestID(), Recover(s.log), AccessLog(s.log)}
	if s.cfg.RateLimit.Enabled {
		limiter := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RequestsPerSecond), s.cfg.RateLimit.Burst)
		middlewares = append(middlewares, RateLimit(limiter, s.metrics))
	}
	return Chain(mux, middlewares...)
}

// Start binds the TCP listener and begins serving HTTP traffic
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already started")
	}

	addr := s.cfg.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	s.listener = listener
	s.server = server
	s.done = make(chan error, 1)

	go func(done chan<- error) {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}(s.done)

	s.log.WithField("addr", listener.Addr().String()).Info("server listening")
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests
// to finish
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	err := <-s.done
	s.listener = nil
	s.server = nil
	return err
}

// Run serves until ctx is cancelled, then drains within the shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	serveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.Start(serveCtx); err != nil {
		return err
	}

	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	select {
	case err := <-done:
		s.mu.Lock()
		s.listener = nil
		s.server = nil
		s.mu.Unlock()
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer stop()
	return s.Shutdown(shutdownCtx)
}

// Addr returns the bound TCP address once the server has started
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

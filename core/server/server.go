package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
)

// Option adjusts a Server after it is built from Config.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events and http.Server errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTLS serves HTTPS with cfg, replacing any certificate pair from Config.
func WithTLS(cfg *tls.Config) Option {
	return func(s *Server) { s.tls = cfg }
}

// Server serves one handler until its context is canceled and then drains
// in-flight requests for up to Config.ShutdownTimeout. A Server serves once.
type Server struct {
	cfg    Config
	tls    *tls.Config
	logger *slog.Logger

	mu      sync.Mutex
	ln      net.Listener
	serving bool
	ready   chan struct{}
}

// New validates cfg and loads its certificate pair, if any.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}
	tlsCfg, err := cfg.tlsConfig()
	if err != nil {
		return nil, errors.Join(ErrFailedLoadCert, err)
	}

	s := &Server{
		cfg:    cfg.withDefaults(),
		tls:    tlsCfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr is the bound address once serving, which resolves ":0"; before that
// it is the configured address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve binds the listener and serves h. When ctx is canceled it shuts down
// gracefully and returns nil; listener and serving failures are returned.
func (s *Server) Serve(ctx context.Context, h http.Handler) error {
	ln, err := s.listen()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:        h,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", ln.Addr().String(), "tls", s.tls != nil)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrServe, err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http server shutdown failed", "error", err)
		return errors.Join(ErrShutdown, err)
	}
	<-errCh
	s.logger.Info("http server stopped")
	return nil
}

// Run adapts Serve to errgroup.Group.Go.
func (s *Server) Run(ctx context.Context, h http.Handler) func() error {
	return func() error { return s.Serve(ctx, h) }
}

func (s *Server) listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serving {
		return nil, ErrAlreadyServing
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, errors.Join(ErrListen, err)
	}
	if s.tls != nil {
		ln = tls.NewListener(ln, s.tls)
	}

	s.serving = true
	s.ln = ln
	close(s.ready)
	return ln, nil
}

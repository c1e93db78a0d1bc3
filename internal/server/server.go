package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"chordserve/internal/auth"
	"chordserve/internal/config"
	"chordserve/internal/convert"
	"chordserve/internal/logging"
)

// Converter runs one validated conversion request against the engine.
type Converter interface {
	Run(ctx context.Context, req *convert.Request) convert.Result
}

// Server is the HTTP front end for the conversion service.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	keys      *auth.KeyStore
	presets   *convert.PresetCatalog
	converter Converter
	handler   http.Handler

	listener net.Listener
	server   *http.Server
}

// New assembles the server from validated configuration. The converter is
// injected so command wiring and tests control engine invocation.
func New(cfg *config.Config, converter Converter, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "http"),
		keys:      auth.NewKeyStore(cfg.Auth.APIKeys, cfg.Auth.OpenMode),
		presets:   convert.NewPresetCatalog(cfg.Convert.Presets),
		converter: converter,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/formats", srv.handleFormats)
	mux.HandleFunc("/options", srv.handleOptions)
	mux.Handle("/convert", srv.requireKey(http.HandlerFunc(srv.handleConvert)))

	srv.handler = srv.securityHeaders(srv.withRequestID(mux))
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Duration(cfg.Convert.TimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the fully wired handler chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("open_mode", s.keys.Open()))
	return nil
}

// Stop shuts the server down, waiting up to the configured grace period for
// in-flight conversions to finish.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.Server.ShutdownTimeout > 0 {
		return time.Duration(s.cfg.Server.ShutdownTimeout) * time.Second
	}
	return 5 * time.Second
}

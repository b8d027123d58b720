package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/logging"
)

// DefaultPort is the API port advertised by the firmware
const DefaultPort = 8080

// shutdownTimeout bounds how long Shutdown waits for in-flight requests
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // TLS certificate; HTTPS is used when both paths are set
	KeyPath  string
}

// Server serves the configuration API and the WebSocket change feed
type Server struct {
	config      *Config
	store       *config.Store
	hub         *Hub
	httpServer  *http.Server
	tlsConfig   *tls.Config
	listener    net.Listener
	unsubscribe func()
}

// New creates a server for store. Store changes are published to WebSocket
// clients from the moment New returns.
func New(cfg *Config, store *config.Store) (*Server, error) {
	var tlsConfig *tls.Config
	if cfg.CertPath != "" || cfg.KeyPath != "" {
		if cfg.CertPath == "" || cfg.KeyPath == "" {
			return nil, fmt.Errorf("both a certificate and a key are required for TLS")
		}
		var err error
		tlsConfig, err = NewTLSConfig(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    cfg,
		store:     store,
		hub:       NewHub(store),
		tlsConfig: tlsConfig,
	}
	s.unsubscribe = store.Subscribe(s.hub.Publish)
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}

// Port returns the port the server listens on. Once listening this is the
// bound port, which differs from the configured one when that was 0.
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Port
}

// Listen binds the listen address without serving yet
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	if s.tlsConfig != nil {
		l = tls.NewListener(l, s.tlsConfig)
	}
	s.listener = l
	return nil
}

// Serve serves requests until the server is shut down
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Server listening for connections",
		zap.String("addr", s.listener.Addr().String()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start starts the server and blocks until SIGINT/SIGTERM or a serve error
func (s *Server) Start() error {
	logging.Info("Starting SmartThermo API server",
		zap.String("addr", s.Addr()),
		zap.String("config", s.store.FilePath()),
	)

	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown stops accepting requests, disconnects WebSocket clients and
// waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.Close()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	} else {
		logging.Info("All connections closed gracefully")
	}

	logging.Sync()
	return err
}

// Clients returns the number of connected WebSocket clients
func (s *Server) Clients() int {
	return s.hub.Clients()
}

// ReportReload forwards a failed file reload to the WebSocket feed. It fits
// the config.NewWatcher callback; successful reloads already reach clients
// through the store subscription.
func (s *Server) ReportReload(err error) {
	s.hub.PublishReloadError(err)
}

package bridge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/icb-irc/bridge/config"
	"github.com/icb-irc/bridge/translate"
)

// Server is the acceptor: one net.Listener per configured binding, an
// acceptLoop goroutine per listener, and a connWg/listenWg pair for
// graceful Shutdown. Grounded on the teacher's server/oscar.Server.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *Registry

	listeners []net.Listener

	connMu sync.Mutex
	conns  map[net.Conn]struct{}

	connWg   sync.WaitGroup
	listenWg sync.WaitGroup

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	closed         chan struct{}
}

// NewServer returns a Server ready to ListenAndServe against cfg's
// bindings, relaying accepted IRC connections to icb_endpoint.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:            cfg,
		logger:         logger,
		registry:       NewRegistry(),
		conns:          make(map[net.Conn]struct{}),
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
		closed:         make(chan struct{}),
	}
}

// ListenAndServe binds every configured listener and blocks until
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	for _, raw := range s.cfg.Bindings {
		binding, err := config.ParseBinding(raw)
		if err != nil {
			s.cleanupListeners()
			s.shutdownCancel()
			return fmt.Errorf("bridge: %w", err)
		}

		ln, err := s.listen(binding)
		if err != nil {
			s.cleanupListeners()
			s.shutdownCancel()
			return fmt.Errorf("bridge: listen on %s: %w", binding.Address, err)
		}

		s.logger.Info("listening", "address", binding.Address, "scheme", binding.Scheme)
		s.listeners = append(s.listeners, ln)
		s.listenWg.Add(1)
		go s.acceptLoop(ln)
	}

	<-s.closed
	return nil
}

func (s *Server) listen(b config.Binding) (net.Listener, error) {
	if b.Scheme == "tcp" {
		return net.Listen("tcp", b.Address)
	}

	cert, err := tls.LoadX509KeyPair(b.Cert, b.Key)
	if err != nil {
		return nil, fmt.Errorf("load tls keypair: %w", err)
	}
	tlsCfg := &tls.Config{Certificates: []tls.Certificate{cert}}
	return tls.Listen("tcp", b.Address, tlsCfg)
}

// Shutdown stops accepting new connections and waits for in-flight
// sessions to close, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("initiating graceful shutdown")
	s.shutdownCancel()
	s.cleanupListeners()

	done := make(chan struct{})
	go func() {
		s.connWg.Wait()
		s.listenWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("shutdown complete")
	case <-ctx.Done():
		s.logger.Info("shutdown timed out, some sessions did not close cleanly")
	}

	close(s.closed)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.listenWg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept error", "err", err.Error())
			continue
		}

		s.connMu.Lock()
		s.conns[conn] = struct{}{}
		s.connMu.Unlock()

		s.connWg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		s.connMu.Lock()
		delete(s.conns, conn)
		s.connMu.Unlock()
		s.connWg.Done()
	}()

	logger := s.logger.With("remote_addr", conn.RemoteAddr().String())
	sess := translate.New(conn, logger, s.cfg.ServerHostname, icbDialAddr(s.cfg.ICBEndpoint), s.registry)

	if err := sess.Run(s.shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Info("session ended", "err", err.Error())
	}
}

func (s *Server) cleanupListeners() {
	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.listeners = nil
}

// icbDialAddr strips the tcp:// scheme spec.md's icb_endpoint carries,
// since icbclient.Connect dials a plain host:port.
func icbDialAddr(endpoint string) string {
	const prefix = "tcp://"
	if len(endpoint) > len(prefix) && endpoint[:len(prefix)] == prefix {
		return endpoint[len(prefix):]
	}
	return endpoint
}

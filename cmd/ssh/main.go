package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomz197/rocks/internal/config"
	"github.com/tomz197/rocks/internal/draw"
	"github.com/tomz197/rocks/internal/loop"
	"github.com/tomz197/rocks/internal/metrics"
	"github.com/tomz197/rocks/internal/server"
	"github.com/tomz197/rocks/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := config.NewLogger("rocks-ssh")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	metricsAddr := config.GetEnv("METRICS_ADDR", "127.0.0.1:9090")
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	params, err := sim.ParamsFromEnv()
	if err != nil {
		logger.Fatal("invalid game parameters", "err", err)
	}

	registry := server.NewRegistry(config.GetEnvInt("SSH_MAX_SESSIONS", 100), metrics.Default)
	limiter := server.NewConnLimiter(
		config.GetEnvFloat("SSH_RATE_PER_MIN", 10),
		config.GetEnvInt("SSH_RATE_BURST", 3),
		metrics.Default,
	)

	h := &handler{
		registry: registry,
		metrics:  metrics.Default,
		params:   params,
		logger:   logger,
		idleWarn: config.GetEnvDuration("SSH_IDLE_WARN", 90*time.Second),
		idleKick: config.GetEnvDuration("SSH_IDLE_DISCONNECT", 120*time.Second),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			limiter.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	debugSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           server.DebugRouter(registry, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting debug server", "addr", metricsAddr)
		if err := debugSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server error", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Cleanup(); n > 0 {
					logger.Debug("dropped idle rate limiters", "count", n)
				}
			}
		}
	}()

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...", "sessions", registry.Len())

	// Notify players and wait for them to disconnect
	if !registry.Shutdown(15 * time.Second) {
		logger.Warn("sessions still open after shutdown timeout", "sessions", registry.Len())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := debugSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("debug server shutdown error", "err", err)
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

type handler struct {
	registry *server.Registry
	metrics  *metrics.Metrics
	params   sim.Params
	logger   *log.Logger
	idleWarn time.Duration
	idleKick time.Duration
}

// middleware runs one private game per SSH session.
func (h *handler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			h.metrics.Rejected("no_pty")
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		gs, err := h.registry.Open(sess.User(), sess.RemoteAddr().String())
		if err != nil {
			wish.Fatalln(sess, "Cannot start a game:", err)
			return
		}
		defer gs.Close()

		logger := h.logger.With("session", gs.ID(), "user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err = loop.Run(sess.Context(), loop.NewReader(sess), sess, loop.Options{
			TermSize:       sizeTracker.getSize,
			Params:         h.params,
			Logger:         logger,
			Metrics:        h.metrics,
			Session:        gs,
			IdleWarn:       h.idleWarn,
			IdleDisconnect: h.idleKick,
			ShutdownNotice: 5 * time.Second,
		})
		switch {
		case errors.Is(err, loop.ErrIdle):
			fmt.Fprintln(sess, "Disconnected for inactivity.")
		case err != nil:
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize

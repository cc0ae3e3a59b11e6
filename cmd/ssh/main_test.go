package main

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomz197/rocks/internal/metrics"
	"github.com/tomz197/rocks/internal/server"
	"github.com/tomz197/rocks/internal/sim"
)

// noPtySession is an ssh.Session without a PTY. Methods the handler does
// not reach are left to the nil embedded interface.
type noPtySession struct {
	ssh.Session
	out bytes.Buffer
}

func (s *noPtySession) Pty() (ssh.Pty, <-chan ssh.Window, bool) {
	return ssh.Pty{}, nil, false
}

func (s *noPtySession) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *noPtySession) User() string                { return "alice" }
func (s *noPtySession) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 4000}
}

func TestMiddlewareRejectsWithoutPty(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := &handler{
		registry: server.NewRegistry(0, m),
		metrics:  m,
		params:   sim.DefaultParams(),
		logger:   log.New(io.Discard),
	}

	called := false
	sess := &noPtySession{}
	h.middleware(func(ssh.Session) { called = true })(sess)

	if called {
		t.Error("next handler ran without a PTY")
	}
	if !strings.Contains(sess.out.String(), "PTY required") {
		t.Errorf("output = %q", sess.out.String())
	}
	if got := testutil.ToFloat64(m.ConnRejected.WithLabelValues("no_pty")); got != 1 {
		t.Errorf("no_pty rejections = %g, want 1", got)
	}
	if h.registry.Len() != 0 {
		t.Errorf("registry has %d sessions, want 0", h.registry.Len())
	}
}

package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeSession struct {
	mu       sync.Mutex
	updates  int
	shutdown chan struct{}
}

func (s *fakeSession) Update(score, level int) {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
}

func (s *fakeSession) ShuttingDown() <-chan struct{} { return s.shutdown }

// openInput returns a reader that never produces bytes until closed.
func openInput(t *testing.T) io.ByteReader {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	return bufio.NewReader(pr)
}

func testOptions() Options {
	return Options{
		TermSize: func() (int, int, error) { return 80, 24, nil },
		Seed:     1,
		Logger:   log.New(io.Discard),
		Clock:    &fakeClock{now: time.Unix(0, 0)},
	}
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(""), &out, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "\033[?25l") {
		t.Errorf("cursor should be hidden first, got %q", s[:min(len(s), 10)])
	}
	if !strings.Contains(s, "\033[?25h") {
		t.Error("cursor should be restored")
	}
}

func TestRunQuitKey(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	go pw.Write([]byte("q"))

	err := Run(context.Background(), bufio.NewReader(pr), io.Discard, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunIdleDisconnect(t *testing.T) {
	opts := testOptions()
	opts.IdleWarn = 500 * time.Millisecond
	opts.IdleDisconnect = time.Second

	var out bytes.Buffer
	err := Run(context.Background(), openInput(t), &out, opts)
	if !errors.Is(err, ErrIdle) {
		t.Fatalf("Run err = %v, want ErrIdle", err)
	}
	if !strings.Contains(out.String(), "Idle - disconnecting in") {
		t.Error("idle warning was never drawn")
	}
}

func TestRunSessionShutdown(t *testing.T) {
	sess := &fakeSession{shutdown: make(chan struct{})}
	close(sess.shutdown)

	opts := testOptions()
	opts.Session = sess
	opts.ShutdownNotice = 200 * time.Millisecond

	var out bytes.Buffer
	if err := Run(context.Background(), openInput(t), &out, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Error("shutdown banner was never drawn")
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := testOptions()
	opts.ShutdownNotice = 100 * time.Millisecond

	var out bytes.Buffer
	if err := Run(ctx, openInput(t), &out, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Disconnecting in 1...") {
		t.Error("countdown was never drawn")
	}
}

func TestRunRejectsInvalidParams(t *testing.T) {
	opts := testOptions()
	opts.Params.Screen.Width = 100
	opts.Params.Screen.Height = -1

	if err := Run(context.Background(), openInput(t), io.Discard, opts); err == nil {
		t.Fatal("expected invalid params to fail")
	}
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomz197/rocks/internal/metrics"
)

func TestRegistryOpenClose(t *testing.T) {
	reg := NewRegistry(2, nil)

	a, err := reg.Open("alice", "10.0.0.1:1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := reg.Open("bob", "10.0.0.2:1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := reg.Open("carol", "10.0.0.3:1"); !errors.Is(err, ErrFull) {
		t.Fatalf("third Open err = %v, want ErrFull", err)
	}

	a.Close()
	a.Close()
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	if _, err := reg.Open("carol", "10.0.0.3:1"); err != nil {
		t.Fatalf("Open after close: %v", err)
	}

	select {
	case <-a.ShuttingDown():
	default:
		t.Error("closed session should report shutdown")
	}
	select {
	case <-b.ShuttingDown():
		t.Error("open session should not report shutdown")
	default:
	}
}

func TestRegistrySnapshot(t *testing.T) {
	reg := NewRegistry(0, nil)
	for _, u := range []string{"a", "b", "c"} {
		if _, err := reg.Open(u, "r"); err != nil {
			t.Fatal(err)
		}
	}
	s, _ := reg.Open("d", "r")
	s.Update(400, 3)

	snap := reg.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("len = %d, want 4", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i-1].ID >= snap[i].ID {
			t.Fatalf("snapshot not ordered: %v", snap)
		}
	}
	last := snap[3]
	if last.User != "d" || last.Score != 400 || last.Level != 3 {
		t.Errorf("last = %+v", last)
	}
}

func TestRegistryShutdown(t *testing.T) {
	reg := NewRegistry(0, nil)
	s, _ := reg.Open("alice", "r")

	go func() {
		<-s.ShuttingDown()
		s.Close()
	}()

	if !reg.Shutdown(time.Second) {
		t.Fatal("Shutdown should finish once the session closes")
	}
	if _, err := reg.Open("late", "r"); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("Open after shutdown err = %v", err)
	}
}

func TestRegistryShutdownTimeout(t *testing.T) {
	reg := NewRegistry(0, nil)
	if _, err := reg.Open("stuck", "r"); err != nil {
		t.Fatal(err)
	}
	if reg.Shutdown(100 * time.Millisecond) {
		t.Error("Shutdown should time out while a session stays open")
	}
}

func TestConnLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewConnLimiter(6, 2, nil) // one token every 10s
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("burst should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatal("third connection should be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("other addresses have their own budget")
	}

	now = now.Add(10 * time.Second)
	if !l.Allow("1.1.1.1") {
		t.Fatal("token should refill")
	}

	now = now.Add(11 * time.Minute)
	if n := l.Cleanup(); n != 2 {
		t.Errorf("Cleanup dropped %d, want 2", n)
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d after cleanup", l.Len())
	}
}

func TestDebugRouter(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	reg := NewRegistry(0, m)
	s, _ := reg.Open("alice", "r")
	s.Update(150, 2)

	srv := httptest.NewServer(DebugRouter(reg, promReg))
	defer srv.Close()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		return resp, string(body)
	}

	resp, body := get("/health")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}

	_, body = get("/metrics")
	if !strings.Contains(body, "rocks_sessions_active 1") {
		t.Errorf("/metrics missing active sessions gauge:\n%s", body)
	}

	_, body = get("/sessions")
	var infos []SessionInfo
	if err := json.Unmarshal([]byte(body), &infos); err != nil {
		t.Fatalf("decode /sessions: %v", err)
	}
	if len(infos) != 1 || infos[0].User != "alice" || infos[0].Score != 150 {
		t.Errorf("/sessions = %+v", infos)
	}
}

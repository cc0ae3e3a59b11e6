package input

import (
	"bytes"
	"testing"
	"time"

	"github.com/tomz197/rocks/internal/sim"
)

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		want  sim.Action
	}{
		{"w", "w", sim.ActionThrust},
		{"up arrow", "\x1b[A", sim.ActionThrust},
		{"a", "A", sim.ActionLeft},
		{"left arrow", "\x1b[D", sim.ActionLeft},
		{"d", "d", sim.ActionRight},
		{"right arrow", "\x1b[C", sim.ActionRight},
		{"space", " ", sim.ActionFire},
		{"s", "s", sim.ActionFire},
		{"q", "q", sim.ActionQuit},
		{"ss3 up arrow", "\x1bOA", sim.ActionThrust},
		{"ctrl-c", "\x03", sim.ActionQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			f := s.process([]byte(tt.bytes), time.Unix(100, 0))
			if !f.Held(tt.want) || !f.Pressed(tt.want) {
				t.Fatalf("%q did not map to action %d", tt.bytes, tt.want)
			}
			if want := sim.Actions(tt.want); f.Keys().Down != want {
				t.Errorf("held set = %b, want %b", f.Keys().Down, want)
			}
		})
	}
}

func TestArrowIsNotQuit(t *testing.T) {
	s := &Stream{}
	f := s.process([]byte("\x1b[C"), time.Unix(100, 0))
	if f.Held(sim.ActionQuit) {
		t.Error("arrow escape sequence read as quit")
	}
}

func TestHoldWindow(t *testing.T) {
	s := &Stream{}
	t0 := time.Unix(100, 0)

	f := s.process([]byte("wd"), t0)
	if !f.Held(sim.ActionThrust) || !f.Held(sim.ActionRight) {
		t.Fatal("combination not held")
	}

	f = s.process(nil, t0.Add(keyHoldDuration/2))
	if !f.Held(sim.ActionThrust) {
		t.Error("key released inside the hold window")
	}
	if f.Pressed(sim.ActionThrust) {
		t.Error("key reported pressed without new bytes")
	}

	f = s.process(nil, t0.Add(keyHoldDuration))
	if f.Held(sim.ActionThrust) || f.Held(sim.ActionRight) {
		t.Error("key still held after the hold window")
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s := StartStream(bytes.NewReader([]byte("w")))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f := s.Poll()
		if f.Closed {
			if !f.Held(sim.ActionQuit) {
				t.Error("closed stream did not report quit")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("stream never reported closed")
}

func TestUnmappedSequencesAreDropped(t *testing.T) {
	for _, seq := range []string{"\x1b[B", "\x1bOB", "\x1b[3~", "\x1b[1;5A", "\x1b[H"} {
		s := &Stream{}
		t0 := time.Unix(100, 0)
		f := s.process([]byte(seq), t0)
		if f.Keys().Down != 0 || f.Keys().Just != 0 {
			t.Errorf("%q: got held %b pressed %b, want nothing", seq, f.Keys().Down, f.Keys().Just)
		}
		f = s.process(nil, t0.Add(keyHoldDuration))
		if f.Held(sim.ActionQuit) {
			t.Errorf("%q: later frame reads quit", seq)
		}
	}
}

func TestLoneEscapeQuitsAfterHoldWindow(t *testing.T) {
	s := &Stream{}
	t0 := time.Unix(100, 0)

	if f := s.process([]byte("\x1b"), t0); f.Held(sim.ActionQuit) {
		t.Fatal("escape should wait for a possible sequence")
	}
	if f := s.process(nil, t0.Add(keyHoldDuration/2)); f.Held(sim.ActionQuit) {
		t.Fatal("escape quit inside the hold window")
	}
	f := s.process(nil, t0.Add(keyHoldDuration))
	if !f.Held(sim.ActionQuit) || !f.Pressed(sim.ActionQuit) {
		t.Fatal("lone escape should quit once the hold window passes")
	}
}

func TestSplitArrowSequence(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
	}{
		{"after escape", "\x1b", "[A"},
		{"after bracket", "\x1b[", "A"},
		{"after key", "d\x1b", "[A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			t0 := time.Unix(100, 0)

			f := s.process([]byte(tt.first), t0)
			if f.Held(sim.ActionQuit) || f.Held(sim.ActionThrust) {
				t.Fatalf("first half: held %b", f.Keys().Down)
			}

			f = s.process([]byte(tt.second), t0.Add(time.Millisecond))
			if !f.Pressed(sim.ActionThrust) {
				t.Errorf("second half: thrust not pressed, pressed %b", f.Keys().Just)
			}
			if f.Held(sim.ActionQuit) || f.Pressed(sim.ActionLeft) {
				t.Errorf("second half: unexpected keys held %b pressed %b", f.Keys().Down, f.Keys().Just)
			}
		})
	}
}

func TestEscapeFollowedByKey(t *testing.T) {
	s := &Stream{}
	f := s.process([]byte("\x1bw"), time.Unix(100, 0))
	if !f.Pressed(sim.ActionQuit) {
		t.Error("escape before another key should quit")
	}
	if !f.Pressed(sim.ActionThrust) {
		t.Error("key after escape was lost")
	}
}

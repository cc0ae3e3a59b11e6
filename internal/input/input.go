// Package input turns a raw terminal byte stream into per-frame key state.
//
// Terminals only report key presses (and auto-repeat), never releases, so a
// key counts as held for a short window after its last byte arrived.
package input

import (
	"io"
	"time"

	"github.com/tomz197/rocks/internal/sim"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

const numActions = int(sim.ActionQuit) + 1

// Frame is the input state for one frame. It implements sim.Input.
type Frame struct {
	held    sim.ActionSet
	pressed sim.ActionSet
	Closed  bool // The underlying reader has ended
}

// Held implements sim.Input.
func (f Frame) Held(a sim.Action) bool { return f.held.Has(a) }

// Pressed implements sim.Input.
func (f Frame) Pressed(a sim.Action) bool { return f.pressed.Has(a) }

// Keys returns the frame as a plain sim.Keys value.
func (f Frame) Keys() sim.Keys {
	return sim.Keys{Down: f.held, Just: f.pressed}
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	last   [numActions]time.Time
	closed bool
	buf    []byte

	// carry holds an unfinished escape sequence until the next poll.
	carry   []byte
	carryAt time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains all available bytes without blocking and returns the frame
// state. A closed stream reports Quit.
func (s *Stream) Poll() Frame {
	s.buf = s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}
	return s.process(s.buf, time.Now())
}

// process updates key timestamps from buf and builds the frame at now.
// Escape sequences split across polls are joined with the next batch; a
// lone ESC counts as Quit once nothing has followed it for keyHoldDuration.
func (s *Stream) process(buf []byte, now time.Time) Frame {
	var pressed sim.ActionSet
	press := func(a sim.Action) {
		s.last[a] = now
		pressed |= sim.Actions(a)
	}

	data := buf
	if len(s.carry) > 0 {
		data = append(append([]byte(nil), s.carry...), buf...)
		s.carry = s.carry[:0]
	}
	carried := false

	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != '\x1b' {
			if a, ok := byteAction(b); ok {
				press(a)
			}
			continue
		}

		n, a, ok := escapeSequence(data[i:])
		switch {
		case n == 0:
			// Incomplete: wait for more bytes unless it has gone stale.
			if s.carryAt.IsZero() {
				s.carryAt = now
			}
			if now.Sub(s.carryAt) < keyHoldDuration {
				s.carry = append(s.carry, data[i:]...)
				carried = true
			} else if len(data)-i == 1 {
				press(sim.ActionQuit)
			}
			i = len(data)
		case ok:
			press(a)
			i += n - 1
		default:
			i += n - 1
		}
	}
	if !carried {
		s.carryAt = time.Time{}
	}

	f := Frame{pressed: pressed, Closed: s.closed}
	for a := 0; a < numActions; a++ {
		if !s.last[a].IsZero() && now.Sub(s.last[a]) < keyHoldDuration {
			f.held |= sim.Actions(sim.Action(a))
		}
	}
	if s.closed {
		f.held |= sim.Actions(sim.ActionQuit)
		f.pressed |= sim.Actions(sim.ActionQuit)
	}
	return f
}

// escapeSequence parses the sequence at the start of seq, which begins with
// ESC. It returns the number of bytes consumed (0 when more bytes are
// needed) and the mapped action, if any. CSI (ESC [) and SS3 (ESC O)
// sequences are consumed whole; unmapped ones are dropped. ESC followed by
// anything else is the Escape key itself.
func escapeSequence(seq []byte) (n int, a sim.Action, ok bool) {
	if len(seq) < 2 {
		return 0, 0, false
	}
	switch seq[1] {
	case '[':
		params := false
		for j := 2; j < len(seq); j++ {
			c := seq[j]
			if c >= 0x20 && c <= 0x3f { // parameter and intermediate bytes
				params = true
				continue
			}
			if params {
				return j + 1, 0, false
			}
			a, ok := arrowAction(c)
			return j + 1, a, ok
		}
		return 0, 0, false
	case 'O':
		if len(seq) < 3 {
			return 0, 0, false
		}
		a, ok := arrowAction(seq[2])
		return 3, a, ok
	}
	return 1, sim.ActionQuit, true
}

func arrowAction(code byte) (sim.Action, bool) {
	switch code {
	case 'A': // Up arrow
		return sim.ActionThrust, true
	case 'C': // Right arrow
		return sim.ActionRight, true
	case 'D': // Left arrow
		return sim.ActionLeft, true
	}
	return 0, false
}

func byteAction(b byte) (sim.Action, bool) {
	switch b {
	case 'w', 'W':
		return sim.ActionThrust, true
	case 'a', 'A':
		return sim.ActionLeft, true
	case 'd', 'D':
		return sim.ActionRight, true
	case ' ', 's', 'S':
		return sim.ActionFire, true
	case 'q', 'Q', '\x03': // Ctrl-C
		return sim.ActionQuit, true
	}
	return 0, false
}

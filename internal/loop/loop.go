// Package loop runs one terminal game session: input, simulation step,
// effects and drawing at a fixed frame rate.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rocks/internal/draw"
	"github.com/tomz197/rocks/internal/input"
	"github.com/tomz197/rocks/internal/metrics"
	"github.com/tomz197/rocks/internal/render"
	"github.com/tomz197/rocks/internal/sim"
)

const targetFPS = 60
const targetFrameTime = time.Second / targetFPS

// MaxFrameDelta caps the time a single step may cover, so a stalled
// connection does not teleport the ship on the next frame.
const MaxFrameDelta = 250 * time.Millisecond

// ErrIdle is returned by Run when the player has been inactive too long.
var ErrIdle = errors.New("disconnected for inactivity")

// Clock abstracts time for the frame loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Session receives progress updates and can ask the loop to wind down.
type Session interface {
	Update(score, level int)
	ShuttingDown() <-chan struct{}
}

// Options configures Run. Zero values fall back to sensible defaults.
type Options struct {
	TermSize draw.TermSizeFunc
	Params   sim.Params
	Seed     int64 // 0 picks a time-based seed
	Audio    sim.AudioPlayer
	Logger   *log.Logger
	Metrics  *metrics.Metrics
	Session  Session
	Clock    Clock

	IdleWarn       time.Duration // 0 disables the inactivity check
	IdleDisconnect time.Duration
	ShutdownNotice time.Duration // How long the shutdown banner stays up
}

func (o *Options) applyDefaults() {
	if o.TermSize == nil {
		o.TermSize = draw.StdoutSize
	}
	if o.Params.Screen.Width == 0 {
		o.Params = sim.DefaultParams()
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Audio == nil {
		o.Audio = sim.NopAudio{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.ShutdownNotice == 0 {
		o.ShutdownNotice = 3 * time.Second
	}
}

// Run plays one session on w, reading keys from r, until the player quits,
// the input ends, ctx is cancelled or the session is asked to shut down.
// Cancellation and shutdown show a notice for opts.ShutdownNotice first.
func Run(ctx context.Context, r io.ByteReader, w io.Writer, opts Options) error {
	opts.applyDefaults()

	st, err := sim.NewSession(opts.Params, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	g := &game{
		opts:    opts,
		st:      st,
		effects: render.NewEffects(rand.New(rand.NewSource(opts.Seed + 1))),
		stream:  input.StartStream(r),
		cw:      draw.NewChunkWriter(w),
		log:     opts.Logger,
	}

	termW, termH, _ := opts.TermSize()
	g.canvas = draw.NewCanvas(termW, termH, opts.Params.Screen.Width, opts.Params.Screen.Height)
	g.tr = draw.NewTermRenderer(g.canvas)

	var shutdown <-chan struct{}
	if opts.Session != nil {
		shutdown = opts.Session.ShuttingDown()
	}

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	defer draw.ClearScreen(w)
	defer opts.Audio.StopLoop(sim.SoundThrust)

	now := opts.Clock.Now()
	last := now
	g.lastInput = now

	for {
		frameStart := opts.Clock.Now()
		delta := min(frameStart.Sub(last), MaxFrameDelta)
		last = frameStart

		frame := g.stream.Poll()
		if frame.Held(sim.ActionQuit) {
			g.log.Debug("player quit", "score", g.st.Score, "level", g.st.Level)
			return nil
		}
		if g.active(frame) {
			g.lastInput = frameStart
		}

		if g.shutdownLeft == 0 {
			select {
			case <-ctx.Done():
				g.beginShutdown()
			case <-shutdown:
				g.beginShutdown()
			default:
			}
		}

		if g.shutdownLeft > 0 {
			g.shutdownLeft -= delta
			if g.shutdownLeft <= 0 {
				return nil
			}
		} else {
			if err := g.checkIdle(frameStart); err != nil {
				return err
			}
			g.update(frame, delta)
		}

		g.updateScreen()
		if err := g.drawFrame(frameStart); err != nil {
			return err
		}

		elapsed := opts.Clock.Now().Sub(frameStart)
		if elapsed < targetFrameTime {
			opts.Clock.Sleep(targetFrameTime - elapsed)
		}
	}
}

type game struct {
	opts    Options
	st      *sim.State
	effects *render.Effects
	stream  *input.Stream
	canvas  *draw.Canvas
	tr      *draw.TermRenderer
	cw      *draw.ChunkWriter
	log     *log.Logger

	lastInput    time.Time
	idleWarning  bool
	shutdownLeft time.Duration
}

func (g *game) active(f input.Frame) bool {
	for a := sim.ActionThrust; a <= sim.ActionQuit; a++ {
		if f.Pressed(a) {
			return true
		}
	}
	return false
}

func (g *game) beginShutdown() {
	g.shutdownLeft = g.opts.ShutdownNotice
	g.opts.Audio.StopLoop(sim.SoundThrust)
	g.log.Info("session shutting down", "score", g.st.Score)
}

// checkIdle returns ErrIdle once the player has been inactive for
// IdleDisconnect, and raises the warning banner after IdleWarn.
func (g *game) checkIdle(now time.Time) error {
	if g.opts.IdleDisconnect <= 0 {
		return nil
	}
	idle := now.Sub(g.lastInput)
	if idle >= g.opts.IdleDisconnect {
		g.log.Info("disconnecting idle player", "idle", idle)
		return ErrIdle
	}
	g.idleWarning = g.opts.IdleWarn > 0 && idle >= g.opts.IdleWarn
	return nil
}

func (g *game) update(frame input.Frame, delta time.Duration) {
	start := time.Now()
	report := sim.Step(g.st, frame, g.opts.Audio, delta.Seconds())
	if g.opts.Metrics != nil {
		g.opts.Metrics.ObserveStep(g.st, report, time.Since(start))
	}

	g.effects.Observe(g.st, report)
	g.effects.Update(delta.Seconds())

	switch {
	case report.PlayerHit:
		g.log.Info("game over", "score", g.st.Score, "level", g.st.Level)
	case report.Wave:
		g.log.Debug("new wave", "level", g.st.Level, "asteroids", len(g.st.Asteroids))
	}
	if report.ScoreGain > 0 || report.Wave || report.Reset {
		if g.opts.Session != nil {
			g.opts.Session.Update(g.st.Score, g.st.Level)
		}
	}
}

// updateScreen handles terminal resize.
func (g *game) updateScreen() {
	termW, termH, err := g.opts.TermSize()
	if err != nil {
		return
	}
	g.canvas.Resize(termW, termH)
}

func (g *game) drawFrame(now time.Time) error {
	g.tr.Begin()
	render.Scene(g.tr, g.st)
	g.effects.Draw(g.tr)

	c := g.st.Params.Screen.Center()
	switch {
	case g.shutdownLeft > 0:
		secs := int(g.shutdownLeft.Seconds()) + 1
		g.tr.Text(render.Vec2{X: c.X - 90, Y: c.Y - 40}, "SERVER SHUTTING DOWN", render.Yellow)
		g.tr.Text(render.Vec2{X: c.X - 90, Y: c.Y + 20}, fmt.Sprintf("Disconnecting in %d...", secs), render.White)
	case g.idleWarning:
		left := g.opts.IdleDisconnect - now.Sub(g.lastInput)
		g.tr.Text(render.Vec2{X: c.X - 90, Y: c.Y + 40},
			fmt.Sprintf("Idle - disconnecting in %ds", int(left.Seconds())+1), render.Yellow)
	}

	g.tr.Flush(g.cw)
	return g.cw.Flush()
}

// NewReader wraps r so Run can read it byte by byte.
func NewReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

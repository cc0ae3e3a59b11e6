// Package audio plays the game's sound cues through gopxl/beep.
//
// Cues are synthesised at startup and can be replaced by WAV files. A Player
// that was never initialised accepts every call and stays silent, which is
// how the terminal and SSH hosts run.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/tomz197/rocks/internal/sim"
)

// Sound is the simulation's sound cue type.
type Sound = sim.Sound

// Cues
const (
	Fire      = sim.SoundFire
	Explosion = sim.SoundExplosion
	Death     = sim.SoundDeath
	Thrust    = sim.SoundThrust
)

// AllSounds lists every cue in asset-loading order.
var AllSounds = []Sound{Fire, Explosion, Death, Thrust}

// DefaultSampleRate is the output rate used by the hosts.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrMissingAsset is returned by Load when a cue has no WAV file.
var ErrMissingAsset = errors.New("sound asset missing")

// loop is a looping cue: one Ctrl per sound, paused when stopped.
type loop struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// Player mixes one-shot and looped cues into the speaker. It implements
// sim.AudioPlayer and is safe for concurrent use.
type Player struct {
	mu      sync.Mutex
	format  beep.Format
	mixer   *beep.Mixer
	buffers map[Sound]*beep.Buffer
	loops   map[Sound]*loop
	volume  float64 // Master volume, 0..1

	enabled    bool // Cues reach the mixer
	speakerOut bool // The mixer is attached to the speaker
}

var _ sim.AudioPlayer = (*Player)(nil)

// New creates a silent player holding the synthesised cues.
func New(rate beep.SampleRate) *Player {
	p := &Player{
		format:  beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		mixer:   &beep.Mixer{},
		buffers: make(map[Sound]*beep.Buffer, len(AllSounds)),
		loops:   make(map[Sound]*loop),
		volume:  0.6,
	}
	for _, s := range AllSounds {
		buf := beep.NewBuffer(p.format)
		buf.Append(synthesize(s, rate))
		p.buffers[s] = buf
	}
	return p
}

// Init opens the speaker and starts playing the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speakerOut {
		return nil
	}

	rate := p.format.SampleRate
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.speakerOut = true
	p.enabled = true
	return nil
}

// Load replaces the synthesised cues with <dir>/<name>.wav for every cue.
// Any missing or undecodable file fails the whole load.
func (p *Player) Load(dir string) error {
	loaded := make(map[Sound]*beep.Buffer, len(AllSounds))
	for _, s := range AllSounds {
		buf, err := p.decodeFile(filepath.Join(dir, s.String()+".wav"))
		if err != nil {
			return fmt.Errorf("load %s sound: %w", s, err)
		}
		loaded[s] = buf
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers = loaded
	return nil
}

func (p *Player) decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != p.format.SampleRate {
		src = beep.Resample(4, format.SampleRate, p.format.SampleRate, streamer)
	}
	buf := beep.NewBuffer(p.format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// SetVolume sets the master volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Max(0, math.Min(1, v))
}

// Play starts a one-shot cue.
func (p *Player) Play(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf, ok := p.buffers[s]
	if !p.enabled || !ok {
		return
	}
	p.lock()
	p.mixer.Add(newVolume(buf.Streamer(0, buf.Len()), p.volume))
	p.unlock()
}

// PlayLoop starts (or resumes) a looping cue at volume relative to the
// master volume.
func (p *Player) PlayLoop(s Sound, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf, ok := p.buffers[s]
	if !p.enabled || !ok {
		return
	}

	p.lock()
	defer p.unlock()

	if l, ok := p.loops[s]; ok {
		setVolume(l.volume, volume*p.volume)
		l.ctrl.Paused = false
		return
	}

	vol := newVolume(beep.Loop(-1, buf.Streamer(0, buf.Len())), volume*p.volume)
	l := &loop{ctrl: &beep.Ctrl{Streamer: vol}, volume: vol}
	p.loops[s] = l
	p.mixer.Add(l.ctrl)
}

// StopLoop pauses a looping cue.
func (p *Player) StopLoop(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.loops[s]
	if !ok {
		return
	}
	p.lock()
	l.ctrl.Paused = true
	p.unlock()
}

// Looping reports whether the loop for s is currently audible.
func (p *Player) Looping(s Sound) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.loops[s]
	if !ok {
		return false
	}
	p.lock()
	defer p.unlock()
	return !l.ctrl.Paused
}

// Active returns the number of streams in the mixer.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// Close silences everything and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	p.mixer.Clear()
	p.unlock()
	if p.speakerOut {
		speaker.Close()
		p.speakerOut = false
	}
	clear(p.loops)
	p.enabled = false
}

// lock and unlock guard the mixer against the speaker goroutine.
func (p *Player) lock() {
	if p.speakerOut {
		speaker.Lock()
	}
}

func (p *Player) unlock() {
	if p.speakerOut {
		speaker.Unlock()
	}
}

// newVolume wraps s at a linear volume. math.Log2(0) is -Inf, so zero
// volume is handled by making it silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setVolume(v, vol)
	return v
}

func setVolume(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume, v.Silent = 0, true
		return
	}
	v.Volume, v.Silent = math.Log2(vol), false
}

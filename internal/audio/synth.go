package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a wave whose frequency slides linearly from freq to
// endFreq over its duration.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a fixed-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator sliding from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(wave))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay scales a stream by an exponential envelope exp(-t*rate) after a
// short linear attack.
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	perTick  float64
	sr       beep.SampleRate
}

// NewDecay wraps s in an attack/exponential-decay envelope.
func NewDecay(s beep.Streamer, attack time.Duration, rate float64, sr beep.SampleRate) beep.Streamer {
	return &decay{
		streamer: s,
		attack:   sr.N(attack),
		perTick:  rate / float64(sr),
		sr:       sr,
	}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-float64(d.position) * d.perTick)
		if d.position < d.attack {
			vol *= float64(d.position) / float64(d.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// synthesize renders the built-in cue for s.
func synthesize(s Sound, sr beep.SampleRate) beep.Streamer {
	switch s {
	case Fire:
		// Falling square chirp
		return NewDecay(NewSweep(1400, 300, 120*time.Millisecond, WaveSquare, sr), 2*time.Millisecond, 18, sr)
	case Explosion:
		// Noise burst over a low thump
		return NewDecay(beep.Mix(
			NewOscillator(0, 450*time.Millisecond, WaveNoise, sr),
			NewSweep(120, 40, 450*time.Millisecond, WaveSine, sr),
		), 3*time.Millisecond, 9, sr)
	case Death:
		// Long descending saw with noise
		return NewDecay(beep.Mix(
			NewSweep(440, 55, 1200*time.Millisecond, WaveSaw, sr),
			NewOscillator(0, 1200*time.Millisecond, WaveNoise, sr),
		), 5*time.Millisecond, 3, sr)
	case Thrust:
		// Seamless rumble for looping
		return beep.Mix(
			NewOscillator(0, 500*time.Millisecond, WaveNoise, sr),
			NewOscillator(60, 500*time.Millisecond, WaveSine, sr),
		)
	default:
		return beep.Silence(sr.N(10 * time.Millisecond))
	}
}

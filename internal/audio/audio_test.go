package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// newMixingPlayer returns a player that feeds its mixer without a speaker.
func newMixingPlayer() *Player {
	p := New(DefaultSampleRate)
	p.enabled = true
	return p
}

func TestOscillatorRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewSweep(880, 220, 20*time.Millisecond, wave, DefaultSampleRate)
		samples := make([][2]float64, 256)
		n, ok := osc.Stream(samples)
		if !ok || n != len(samples) {
			t.Fatalf("wave %d: streamed %d, ok=%v", wave, n, ok)
		}
		for i := 0; i < n; i++ {
			if v := samples[i][0]; v < -1 || v > 1 {
				t.Fatalf("wave %d: sample %d out of range: %f", wave, i, v)
			}
		}
	}
}

func TestOscillatorEnds(t *testing.T) {
	osc := NewOscillator(440, 10*time.Millisecond, WaveSine, DefaultSampleRate)
	want := DefaultSampleRate.N(10 * time.Millisecond)

	total := 0
	samples := make([][2]float64, 100)
	for {
		n, ok := osc.Stream(samples)
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestSynthesizedCuesAreFinite(t *testing.T) {
	p := New(DefaultSampleRate)
	for _, s := range AllSounds {
		buf := p.buffers[s]
		if buf == nil || buf.Len() == 0 {
			t.Errorf("%s: empty buffer", s)
		}
		if buf.Len() > DefaultSampleRate.N(2*time.Second) {
			t.Errorf("%s: %d samples is longer than expected", s, buf.Len())
		}
	}
}

func TestUninitialisedPlayerIsSilent(t *testing.T) {
	p := New(DefaultSampleRate)
	p.Play(Fire)
	p.PlayLoop(Thrust, 0.5)
	p.StopLoop(Thrust)
	p.Close()
	if n := p.Active(); n != 0 {
		t.Errorf("mixer holds %d streams, want 0", n)
	}
}

func TestPlayAddsOneShot(t *testing.T) {
	p := newMixingPlayer()
	p.Play(Fire)
	p.Play(Explosion)
	if n := p.Active(); n != 2 {
		t.Errorf("Active = %d, want 2", n)
	}
}

func TestThrustLoopReusesStream(t *testing.T) {
	p := newMixingPlayer()

	p.PlayLoop(Thrust, 0.5)
	if !p.Looping(Thrust) {
		t.Fatal("loop not playing")
	}
	p.StopLoop(Thrust)
	if p.Looping(Thrust) {
		t.Fatal("loop still playing after stop")
	}
	p.PlayLoop(Thrust, 0.25)
	if !p.Looping(Thrust) {
		t.Fatal("loop not resumed")
	}
	if n := p.Active(); n != 1 {
		t.Errorf("Active = %d, want a single loop stream", n)
	}

	// A looping cue never runs dry.
	samples := make([][2]float64, 512)
	for i := 0; i < 200; i++ {
		if _, ok := p.loops[Thrust].ctrl.Stream(samples); !ok {
			t.Fatalf("loop ended after %d chunks", i)
		}
	}
}

func TestVolumeZeroIsSilent(t *testing.T) {
	v := newVolume(beep.Silence(10), 0)
	if !v.Silent {
		t.Error("zero volume not silent")
	}
	setVolume(v, 0.5)
	if v.Silent || v.Volume != -1 {
		t.Errorf("volume 0.5 gave Silent=%v Volume=%g", v.Silent, v.Volume)
	}
}

func TestLoadMissingAssetFails(t *testing.T) {
	p := New(DefaultSampleRate)
	err := p.Load(t.TempDir())
	if !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("Load error = %v, want ErrMissingAsset", err)
	}
}

func TestLoadWAVAssets(t *testing.T) {
	dir := t.TempDir()
	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	for _, s := range AllSounds {
		f, err := os.Create(filepath.Join(dir, s.String()+".wav"))
		if err != nil {
			t.Fatal(err)
		}
		tone := NewOscillator(440, 50*time.Millisecond, WaveSine, format.SampleRate)
		if err := wav.Encode(f, tone, format); err != nil {
			t.Fatalf("encode %s: %v", s, err)
		}
		f.Close()
	}

	p := New(DefaultSampleRate)
	if err := p.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 50 ms resampled to 44.1 kHz.
	want := DefaultSampleRate.N(50 * time.Millisecond)
	for _, s := range AllSounds {
		got := p.buffers[s].Len()
		if got < want-50 || got > want+50 {
			t.Errorf("%s: %d samples, want about %d", s, got, want)
		}
	}
}

func TestLoadCorruptAssetFails(t *testing.T) {
	dir := t.TempDir()
	for _, s := range AllSounds {
		if err := os.WriteFile(filepath.Join(dir, s.String()+".wav"), []byte("not a wav"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := New(DefaultSampleRate).Load(dir); err == nil {
		t.Fatal("Load accepted a corrupt file")
	}
}

// Command snapshot plays a seeded session with a scripted pilot and saves
// the final frame as a PNG.
package main

import (
	"math/rand"

	"github.com/tomz197/rocks/internal/config"
	"github.com/tomz197/rocks/internal/render"
	"github.com/tomz197/rocks/internal/render/pngrender"
	"github.com/tomz197/rocks/internal/sim"
)

const frameDelta = 1.0 / 60

type summary struct {
	Shots  int
	Hits   int
	Waves  int
	Deaths int
}

// pilot returns the scripted controls for frame n: always shooting,
// sweeping left and right, with short bursts of thrust.
func pilot(n int) sim.Keys {
	k := sim.Keys{Down: sim.Actions(sim.ActionFire)}
	if (n/120)%2 == 0 {
		k.Down |= sim.Actions(sim.ActionLeft)
	} else {
		k.Down |= sim.Actions(sim.ActionRight)
	}
	if n%90 < 15 {
		k.Down |= sim.Actions(sim.ActionThrust)
	}
	return k
}

func replay(params sim.Params, seed int64, frames int) (*sim.State, *render.Effects, summary, error) {
	st, err := sim.NewSession(params, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, summary{}, err
	}
	fx := render.NewEffects(rand.New(rand.NewSource(seed + 1)))

	var sum summary
	for n := 0; n < frames; n++ {
		r := sim.Step(st, pilot(n), nil, frameDelta)
		fx.Observe(st, r)
		fx.Update(frameDelta)

		if r.Fired {
			sum.Shots++
		}
		sum.Hits += r.Hits
		if r.Wave {
			sum.Waves++
		}
		if r.PlayerHit {
			sum.Deaths++
		}
	}
	return st, fx, sum, nil
}

func main() {
	logger := config.NewLogger("rocks-snapshot")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", "err", err)
	}

	params, err := sim.ParamsFromEnv()
	if err != nil {
		logger.Fatal("invalid game parameters", "err", err)
	}
	seed := config.GetEnvInt64("ROCKS_SEED", 1)
	frames := config.GetEnvInt("SNAPSHOT_FRAMES", 600)
	out := config.GetEnv("SNAPSHOT_OUT", "snapshot.png")

	st, fx, sum, err := replay(params, seed, frames)
	if err != nil {
		logger.Fatal("replay failed", "err", err)
	}

	canvas := pngrender.New(int(params.Screen.Width), int(params.Screen.Height))
	render.Scene(canvas, st)
	fx.Draw(canvas)
	if err := canvas.SavePNG(out); err != nil {
		logger.Fatal("failed to save snapshot", "err", err)
	}

	logger.Info("snapshot saved", "out", out, "seed", seed, "frames", frames,
		"score", st.Score, "level", st.Level, "shots", sum.Shots, "hits", sum.Hits,
		"waves", sum.Waves, "deaths", sum.Deaths)
}

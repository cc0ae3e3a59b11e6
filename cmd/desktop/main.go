package main

import (
	"errors"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/rocks/internal/audio"
	"github.com/tomz197/rocks/internal/config"
	"github.com/tomz197/rocks/internal/loop"
	"github.com/tomz197/rocks/internal/render"
	"github.com/tomz197/rocks/internal/sim"
)

// errQuit ends RunGame without an error report.
var errQuit = errors.New("quit")

var keyBindings = map[sim.Action][]ebiten.Key{
	sim.ActionThrust: {ebiten.KeyW, ebiten.KeyUp},
	sim.ActionLeft:   {ebiten.KeyA, ebiten.KeyLeft},
	sim.ActionRight:  {ebiten.KeyD, ebiten.KeyRight},
	sim.ActionFire:   {ebiten.KeySpace},
	sim.ActionQuit:   {ebiten.KeyEscape},
}

type game struct {
	st      *sim.State
	effects *render.Effects
	audio   *audio.Player
	log     *log.Logger
	last    time.Time
}

func readKeys() sim.Keys {
	var k sim.Keys
	for a, keys := range keyBindings {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				k.Down |= sim.Actions(a)
			}
			if inpututil.IsKeyJustPressed(key) {
				k.Just |= sim.Actions(a)
			}
		}
	}
	return k
}

func (g *game) Update() error {
	keys := readKeys()
	if keys.Pressed(sim.ActionQuit) {
		return errQuit
	}

	now := time.Now()
	dt := min(now.Sub(g.last), loop.MaxFrameDelta).Seconds()
	g.last = now

	report := sim.Step(g.st, keys, g.audio, dt)
	g.effects.Observe(g.st, report)
	g.effects.Update(dt)

	if report.PlayerHit {
		g.log.Info("game over", "score", g.st.Score, "level", g.st.Level)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Black)
	r := screenRenderer{dst: screen}
	render.Scene(r, g.st)
	g.effects.Draw(r)
}

func (g *game) Layout(_, _ int) (int, int) {
	return int(g.st.Params.Screen.Width), int(g.st.Params.Screen.Height)
}

func main() {
	logger := config.NewLogger("rocks-desktop")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", "err", err)
	}

	params, err := sim.ParamsFromEnv()
	if err != nil {
		logger.Fatal("invalid game parameters", "err", err)
	}

	seed := config.GetEnvInt64("ROCKS_SEED", time.Now().UnixNano())
	st, err := sim.NewSession(params, rand.New(rand.NewSource(seed)))
	if err != nil {
		logger.Fatal("failed to start session", "err", err)
	}

	player := audio.New(audio.DefaultSampleRate)
	if dir := config.GetEnv("ROCKS_SOUND_DIR", ""); dir != "" {
		if err := player.Load(dir); err != nil {
			logger.Fatal("failed to load sounds", "dir", dir, "err", err)
		}
	}
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	defer player.Close()

	g := &game{
		st:      st,
		effects: render.NewEffects(rand.New(rand.NewSource(seed + 1))),
		audio:   player,
		log:     logger,
		last:    time.Now(),
	}

	ebiten.SetWindowSize(int(params.Screen.Width), int(params.Screen.Height))
	ebiten.SetWindowTitle("rocks")
	ebiten.SetTPS(60)

	logger.Info("starting", "seed", seed, "variant", config.GetEnv("ROCKS_VARIANT", "classic"))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal("game error", "err", err)
	}
}

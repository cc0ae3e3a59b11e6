package render

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/tomz197/rocks/internal/sim"
)

// Particle is a short-lived visual effect.
type Particle struct {
	Pos     Vec2
	Vel     Vec2
	Life    float64 // Seconds remaining
	MaxLife float64 // Initial lifetime (for fade calculation)
	Color   color.NRGBA
}

// Effects holds the particle bursts drawn on top of a session. Particles
// are cosmetic: they never touch the simulation state.
type Effects struct {
	Drag float64 // Velocity decay per 1/60 s (1.0 = no drag)

	particles []Particle
	rng       *rand.Rand
}

// Burst tuning
const (
	explosionParticles = 12
	explosionSpeed     = 120.0
	explosionLife      = 0.6
	deathParticles     = 30
	deathSpeed         = 200.0
	deathLife          = 1.2
)

// NewEffects creates an empty particle system drawing randomness from rng.
func NewEffects(rng *rand.Rand) *Effects {
	return &Effects{Drag: 0.95, rng: rng}
}

// Len returns the number of live particles.
func (e *Effects) Len() int {
	return len(e.particles)
}

// Particles returns the live particles. The slice is only valid until the
// next call to Update or Explode.
func (e *Effects) Particles() []Particle {
	return e.particles
}

// Observe spawns bursts for what happened during a step: one per destroyed
// asteroid and a larger one where the ship died. A reset clears everything.
func (e *Effects) Observe(st *sim.State, report sim.StepReport) {
	if report.Reset {
		e.particles = e.particles[:0]
		return
	}
	for _, p := range report.Explosions {
		e.Explode(p, explosionParticles, explosionSpeed, explosionLife, color.NRGBA(Orange))
	}
	if report.PlayerHit {
		e.Explode(st.Player.Pos, deathParticles, deathSpeed, deathLife, color.NRGBA(Red))
	}
}

// Explode creates count particles in a circular burst around at.
// Speed varies between 50% and 150%, lifetime between 50% and 100%.
func (e *Effects) Explode(at Vec2, count int, speed, life float64, col color.NRGBA) {
	for i := 0; i < count; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + e.rng.Float64())
		l := life * (0.5 + e.rng.Float64()*0.5)

		e.particles = append(e.particles, Particle{
			Pos:     at,
			Vel:     Vec2{X: math.Cos(angle) * spd, Y: math.Sin(angle) * spd},
			Life:    l,
			MaxLife: l,
			Color:   col,
		})
	}
}

// Update ages and moves every particle, dropping the dead ones.
func (e *Effects) Update(dt float64) {
	drag := math.Pow(e.Drag, dt*60) // Normalize drag to ~60fps

	kept := e.particles[:0]
	for _, p := range e.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Vel = p.Vel.Scale(drag)
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		kept = append(kept, p)
	}
	e.particles = kept
}

// Draw renders particles as small dots fading with their remaining life.
// Particles in the last quarter of their life are skipped.
func (e *Effects) Draw(r Renderer) {
	for _, p := range e.particles {
		frac := p.Life / p.MaxLife
		if frac < 0.25 {
			continue
		}
		c := p.Color
		c.A = uint8(255 * frac)
		r.FillCircle(p.Pos, 1.5, c)
	}
}

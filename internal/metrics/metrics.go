// Package metrics exposes Prometheus collectors for hosted sessions.
// Labels are bounded: nothing is keyed by user or address.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomz197/rocks/internal/sim"
)

// Metrics groups every collector the hosts update.
type Metrics struct {
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	ConnRejected   *prometheus.CounterVec // reason: rate_limit, full, no_pty

	StepDuration prometheus.Histogram
	Steps        prometheus.Counter
	Shots        prometheus.Counter
	Hits         prometheus.Counter
	Splits       prometheus.Counter
	Waves        prometheus.Counter
	GameOvers    prometheus.Counter
	FinalScore   prometheus.Histogram
}

// Default is registered with the global Prometheus registry.
var Default = New(prometheus.DefaultRegisterer)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "rocks_sessions_active",
			Help: "Sessions currently playing",
		}),
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_sessions_total",
			Help: "Sessions started",
		}),
		ConnRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rocks_connections_rejected_total",
			Help: "Connections refused before a session started",
		}, []string{"reason"}),

		StepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "rocks_step_duration_seconds",
			Help:    "Time spent in one simulation step",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_steps_total",
			Help: "Simulation steps run",
		}),
		Shots: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_shots_total",
			Help: "Bullets fired",
		}),
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_asteroid_hits_total",
			Help: "Asteroids destroyed by bullets",
		}),
		Splits: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_asteroid_children_total",
			Help: "Child asteroids spawned by splits",
		}),
		Waves: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_waves_total",
			Help: "Refill waves spawned after a cleared field",
		}),
		GameOvers: f.NewCounter(prometheus.CounterOpts{
			Name: "rocks_game_overs_total",
			Help: "Ships lost",
		}),
		FinalScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "rocks_final_score",
			Help:    "Score at game over",
			Buckets: prometheus.ExponentialBuckets(20, 2, 10),
		}),
	}
}

// ObserveStep records one step's outcome.
func (m *Metrics) ObserveStep(st *sim.State, r sim.StepReport, elapsed time.Duration) {
	m.Steps.Inc()
	m.StepDuration.Observe(elapsed.Seconds())

	if r.Fired {
		m.Shots.Inc()
	}
	m.Hits.Add(float64(r.Hits))
	m.Splits.Add(float64(r.Children))
	if r.Wave {
		m.Waves.Inc()
	}
	if r.PlayerHit {
		m.GameOvers.Inc()
		m.FinalScore.Observe(float64(st.Score))
	}
}

// SessionStarted marks a new live session.
func (m *Metrics) SessionStarted() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// SessionEnded marks a session as finished.
func (m *Metrics) SessionEnded() {
	m.SessionsActive.Dec()
}

// Rejected counts a refused connection.
func (m *Metrics) Rejected(reason string) {
	m.ConnRejected.WithLabelValues(reason).Inc()
}

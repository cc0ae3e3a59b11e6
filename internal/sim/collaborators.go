package sim

// Action is a player control.
type Action int

const (
	ActionThrust Action = iota
	ActionLeft
	ActionRight
	ActionFire
	ActionQuit
)

// Input answers keyboard queries for the current frame.
type Input interface {
	// Held reports whether the control is down this frame.
	Held(a Action) bool
	// Pressed reports whether the control went down since the previous frame.
	Pressed(a Action) bool
}

// ActionSet is a bitmask of actions.
type ActionSet uint8

// Actions builds a set from the given actions.
func Actions(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= 1 << a
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

// Keys is a plain Input value for hosts that poll their own keyboard state.
type Keys struct {
	Down ActionSet // Held this frame
	Just ActionSet // Went down this frame
}

// Held implements Input.
func (k Keys) Held(a Action) bool { return k.Down.Has(a) }

// Pressed implements Input.
func (k Keys) Pressed(a Action) bool { return k.Just.Has(a) }

// Sound identifies a sound cue.
type Sound int

const (
	SoundFire Sound = iota
	SoundExplosion
	SoundDeath
	SoundThrust
)

// String returns the cue name, also used as the asset file stem.
func (s Sound) String() string {
	switch s {
	case SoundFire:
		return "fire"
	case SoundExplosion:
		return "explosion"
	case SoundDeath:
		return "death"
	case SoundThrust:
		return "thrust"
	default:
		return "unknown"
	}
}

// AudioPlayer receives fire-and-forget sound triggers. The simulation never
// waits for playback.
type AudioPlayer interface {
	Play(s Sound)
	PlayLoop(s Sound, volume float64)
	StopLoop(s Sound)
}

// NopAudio discards every sound.
type NopAudio struct{}

func (NopAudio) Play(Sound) {}
func (NopAudio) PlayLoop(Sound, float64) {}
func (NopAudio) StopLoop(Sound) {}

package sim

import "github.com/tomz197/rocks/internal/object"

// fire resets the cooldown and spawns one bullet at the ship's centre along
// its facing.
func fire(st *State, audio AudioPlayer) {
	p := st.Player
	p.Cooldown = st.Params.Reload
	st.Bullets = append(st.Bullets, object.NewBullet(p.Pos, p.Angle, st.Params.BulletSpeed, st.Params.BulletLife))
	audio.Play(SoundFire)
}

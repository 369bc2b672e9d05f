package game

import (
	"hitscan-arena/internal/weapon"
)

// EffectKind is the visual a cue leaves in the arena.
type EffectKind uint8

const (
	EffectMuzzleFlash EffectKind = iota
	EffectImpact
)

func (k EffectKind) String() string {
	if k == EffectImpact {
		return "impact"
	}
	return "muzzle_flash"
}

// Effect is a short-lived visual marker with a fixed expiry time.
type Effect struct {
	Kind      EffectKind
	ShooterID string
	Position  weapon.Vec3
	Normal    weapon.Vec3
	SpawnedAt float64
	ExpiresAt float64
}

// Alive reports whether the effect is still visible at now.
func (e *Effect) Alive(now float64) bool {
	return now < e.ExpiresAt
}

// Alpha fades linearly from 1 at spawn to 0 at expiry.
func (e *Effect) Alpha(now float64) float64 {
	life := e.ExpiresAt - e.SpawnedAt
	if life <= 0 {
		return 0
	}
	a := 1 - (now-e.SpawnedAt)/life
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// ToSnapshot returns an immutable copy for rendering.
func (e *Effect) ToSnapshot(now float64) EffectSnapshot {
	return EffectSnapshot{
		Kind:      e.Kind.String(),
		ShooterID: e.ShooterID,
		Position:  e.Position,
		Normal:    e.Normal,
		Alpha:     e.Alpha(now),
	}
}

// CuePlayer turns sound cues into audio. Implemented by the audio mixer.
type CuePlayer interface {
	Play(kind weapon.CueKind)
}

// CueSink is one shooter's weapon.CueEmitter. It spawns visual effects in
// the engine, forwards every cue to the audio player and counts cues by kind.
//
// Emit runs inside the engine tick, under the engine lock.
type CueSink struct {
	engine  *Engine
	shooter *Shooter
}

// Emit implements weapon.CueEmitter.
func (c *CueSink) Emit(cue weapon.Cue) {
	e := c.engine
	e.stats.Cues[cue.Kind]++

	switch cue.Kind {
	case weapon.CueMuzzleFlash:
		origin, dir := c.shooter.Aim()
		e.spawnEffect(Effect{
			Kind:      EffectMuzzleFlash,
			ShooterID: c.shooter.ID,
			Position:  origin.Add(dir.Scale(MuzzleOffset)),
			Normal:    dir,
			ExpiresAt: e.now + e.cfg.FlashTTL,
		})
	case weapon.CueImpactEffect:
		e.spawnEffect(Effect{
			Kind:      EffectImpact,
			ShooterID: c.shooter.ID,
			Position:  cue.Point,
			Normal:    cue.Normal,
			ExpiresAt: e.now + e.cfg.ImpactTTL,
		})
	}

	if e.audio != nil {
		e.audio.Play(cue.Kind)
	}
}

// MuzzleOffset is how far in front of the eye the flash appears.
const MuzzleOffset = 0.5

var _ weapon.CueEmitter = (*CueSink)(nil)

// Package weapon implements a hitscan weapon: ammo tracking, fire-rate
// gating, damage application and timed reloads.
//
// The controller is driven explicitly by Tick with the host's simulation
// time, so a reload is a stored completion timestamp rather than a timer.
// It is not safe for concurrent use; the host serializes calls.
package weapon

import (
	"log"
	"math"
)

// State of the fire/reload machine.
type State uint8

const (
	StateReady State = iota
	StateReloading
)

// timeEpsilon absorbs float rounding when a deadline is compared with a
// clock computed as ticks/rate: 67/60 + 0.1 lands a hair past 73/60.
const timeEpsilon = 1e-9

func (s State) String() string {
	if s == StateReloading {
		return "reloading"
	}
	return "ready"
}

// Outcome is the single thing that happened during a tick.
type Outcome uint8

const (
	OutcomeIdle Outcome = iota
	OutcomeShot
	OutcomeReloadStarted
	OutcomeReloadFinished
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShot:
		return "shot"
	case OutcomeReloadStarted:
		return "reload_started"
	case OutcomeReloadFinished:
		return "reload_finished"
	default:
		return "idle"
	}
}

// ShotResult describes one fired shot.
type ShotResult struct {
	Origin    Vec3    `json:"origin"`
	Direction Vec3    `json:"direction"`
	Hit       bool    `json:"hit"`
	Point     Vec3    `json:"point"`
	Normal    Vec3    `json:"normal"`
	EntityID  string  `json:"entityId,omitempty"`
	Damage    float64 `json:"damage"`
	Applied   bool    `json:"applied"` // damage reached a Damageable
}

// Options wires the controller to its host. Every field is optional:
// a nil Hitscan always misses, a nil Aim fires from the origin along +Z,
// nil Damage and Cues are no-ops.
type Options struct {
	Hitscan HitscanProvider
	Damage  DamageableResolver
	Cues    CueEmitter
	Aim     AimSource
}

// Controller owns the state of one equipped weapon.
type Controller struct {
	cfg Config

	hitscan HitscanProvider
	damage  DamageableResolver
	cues    CueEmitter
	aim     AimSource

	currentAmmo          int
	state                State
	nextAllowedFireTime  float64
	reloadStartTime      float64
	reloadCompletionTime float64

	lastNow         float64
	started         bool
	clockViolations uint64
	shotsFired      uint64
}

// New validates cfg and returns a full, ready weapon.
func New(cfg Config, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:         cfg,
		hitscan:     opts.Hitscan,
		damage:      opts.Damage,
		cues:        opts.Cues,
		aim:         opts.Aim,
		currentAmmo: cfg.MaxAmmo,
		state:       StateReady,
	}
	if c.hitscan == nil {
		c.hitscan = nopHitscan{}
	}
	if c.damage == nil {
		c.damage = nopResolver{}
	}
	if c.cues == nil {
		c.cues = nopCues{}
	}
	if c.aim == nil {
		c.aim = fixedAim{}
	}
	return c, nil
}

// Step polls clock and input and advances the machine by one tick.
func (c *Controller) Step(clock Clock, in InputSource) (Outcome, *ShotResult) {
	return c.Tick(clock.Now(), in.FireHeld(), in.ReloadRequested())
}

// Tick advances the machine to now. At most one of shot, reload start or
// reload finish happens per call; the returned ShotResult is non-nil only
// for OutcomeShot.
//
// now must be finite and must not go backwards. A NaN, infinite or
// decreasing value is logged and clamped to the last observed time.
func (c *Controller) Tick(now float64, fireHeld, reloadRequested bool) (Outcome, *ShotResult) {
	now = c.observe(now)

	if c.state == StateReloading {
		if reached(now, c.reloadCompletionTime) {
			c.finishReload()
			return OutcomeReloadFinished, nil
		}
		return OutcomeIdle, nil
	}

	if c.currentAmmo == 0 {
		if fireHeld {
			c.cues.Emit(Cue{Kind: CueEmpty})
		}
		c.startReload(now)
		return OutcomeReloadStarted, nil
	}

	if fireHeld && reached(now, c.nextAllowedFireTime) {
		c.nextAllowedFireTime = now + c.cfg.FireInterval()
		return OutcomeShot, c.fire()
	}

	if reloadRequested && c.currentAmmo < c.cfg.MaxAmmo {
		c.startReload(now)
		return OutcomeReloadStarted, nil
	}

	return OutcomeIdle, nil
}

func reached(now, deadline float64) bool {
	return now+timeEpsilon >= deadline
}

func (c *Controller) observe(now float64) float64 {
	if math.IsNaN(now) || math.IsInf(now, 0) {
		c.clockViolations++
		log.Printf("⚠️ weapon: non-finite clock (%v), clamping to %.6f", now, c.lastNow)
		c.started = true
		return c.lastNow
	}
	if c.started && now < c.lastNow {
		c.clockViolations++
		log.Printf("⚠️ weapon: clock went backwards (%.6f < %.6f), clamping", now, c.lastNow)
		return c.lastNow
	}
	c.started = true
	c.lastNow = now
	return now
}

func (c *Controller) fire() *ShotResult {
	c.currentAmmo--
	c.shotsFired++

	c.cues.Emit(Cue{Kind: CueMuzzleFlash})
	c.cues.Emit(Cue{Kind: CueShotSound})

	origin, dir := c.aim.Aim()
	dir = dir.Normalize()
	shot := &ShotResult{
		Origin:    origin,
		Direction: dir,
		Damage:    c.cfg.Damage,
	}

	hit, ok := c.hitscan.CastRay(origin, dir, c.cfg.Range)
	if !ok {
		return shot
	}

	shot.Hit = true
	shot.Point = hit.Point
	shot.Normal = hit.Normal
	shot.EntityID = hit.EntityID

	if hit.EntityID != "" {
		if target, ok := c.damage.Damageable(hit.EntityID); ok && target != nil {
			target.ApplyDamage(hit.EntityID, c.cfg.Damage)
			shot.Applied = true
		}
	}

	c.cues.Emit(Cue{Kind: CueImpactEffect, Point: hit.Point, Normal: hit.Normal})
	return shot
}

func (c *Controller) startReload(now float64) {
	c.state = StateReloading
	c.reloadStartTime = now
	c.reloadCompletionTime = now + c.cfg.ReloadDuration
	c.cues.Emit(Cue{Kind: CueReloadStart})
	c.cues.Emit(Cue{Kind: CueReloadSound})
}

func (c *Controller) finishReload() {
	c.state = StateReady
	c.currentAmmo = c.cfg.MaxAmmo
	c.cues.Emit(Cue{Kind: CueReloadFinish})
}

// GetCurrentAmmo returns the rounds left in the magazine.
func (c *Controller) GetCurrentAmmo() int { return c.currentAmmo }

// GetMaxAmmo returns the magazine size.
func (c *Controller) GetMaxAmmo() int { return c.cfg.MaxAmmo }

// IsReloading reports whether a reload is in progress.
func (c *Controller) IsReloading() bool { return c.state == StateReloading }

// GetReloadProgress is the fraction of the reload elapsed as of the last
// tick, in [0,1]. It is 1 when not reloading.
func (c *Controller) GetReloadProgress() float64 {
	if c.state != StateReloading {
		return 1
	}
	p := (c.lastNow - c.reloadStartTime) / c.cfg.ReloadDuration
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// GetState returns the current machine state.
func (c *Controller) GetState() State { return c.state }

// GetConfig returns the weapon's configuration.
func (c *Controller) GetConfig() Config { return c.cfg }

// ClockViolations counts ticks whose time went backwards or was not finite.
func (c *Controller) ClockViolations() uint64 { return c.clockViolations }

// ShotsFired counts shots since the weapon was equipped.
func (c *Controller) ShotsFired() uint64 { return c.shotsFired }

var _ Display = (*Controller)(nil)

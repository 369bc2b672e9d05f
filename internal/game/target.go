package game

import (
	"hitscan-arena/internal/weapon"
)

// Target is a damageable sphere. It is the only kind of entity that
// resolves to a weapon.Damageable.
type Target struct {
	ID     string
	Name   string
	Center weapon.Vec3
	Radius float64

	HP          float64
	MaxHP       float64
	DamageTaken float64
	Hits        int

	Destroyed    bool
	DestroyedAt  float64
	RespawnDelay float64 // 0 = stays destroyed
}

// TargetOptions configures a new target.
type TargetOptions struct {
	Name         string      `json:"name"`
	Position     weapon.Vec3 `json:"position"`
	Radius       float64     `json:"radius"`
	HP           float64     `json:"hp"`
	RespawnDelay float64     `json:"respawnDelay"`
}

const (
	DefaultTargetRadius = 0.5
	DefaultTargetHP     = 100.0
)

// NewTarget creates a target at full health.
func NewTarget(id string, opts TargetOptions) *Target {
	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultTargetRadius
	}
	hp := opts.HP
	if hp <= 0 {
		hp = DefaultTargetHP
	}
	name := opts.Name
	if name == "" {
		name = id
	}

	return &Target{
		ID:           id,
		Name:         name,
		Center:       opts.Position,
		Radius:       radius,
		HP:           hp,
		MaxHP:        hp,
		RespawnDelay: opts.RespawnDelay,
	}
}

// ApplyDamage subtracts exactly amount from the target's health.
// Damage to an already destroyed target is ignored.
func (t *Target) ApplyDamage(entityID string, amount float64) {
	if t.Destroyed || entityID != t.ID {
		return
	}
	t.Hits++
	t.DamageTaken += amount
	t.HP -= amount
	if t.HP <= 0 {
		t.HP = 0
		t.Destroyed = true
	}
}

// Respawn restores full health.
func (t *Target) Respawn() {
	t.HP = t.MaxHP
	t.Destroyed = false
	t.DestroyedAt = 0
}

// ToSnapshot returns an immutable copy for rendering.
func (t *Target) ToSnapshot() TargetSnapshot {
	return TargetSnapshot{
		ID:          t.ID,
		Name:        t.Name,
		Position:    t.Center,
		Radius:      t.Radius,
		HP:          t.HP,
		MaxHP:       t.MaxHP,
		DamageTaken: t.DamageTaken,
		Destroyed:   t.Destroyed,
	}
}

var _ weapon.Damageable = (*Target)(nil)

// Obstacle is an axis-aligned box that stops rays. It has an ID but no
// health, so a shot that lands on it hits without applying damage.
type Obstacle struct {
	ID       string
	Min, Max weapon.Vec3
}

// NewObstacle normalizes the corners so Min <= Max on every axis.
func NewObstacle(id string, a, b weapon.Vec3) *Obstacle {
	return &Obstacle{
		ID:  id,
		Min: weapon.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: weapon.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// ToSnapshot returns an immutable copy for rendering.
func (o *Obstacle) ToSnapshot() ObstacleSnapshot {
	return ObstacleSnapshot{ID: o.ID, Min: o.Min, Max: o.Max}
}

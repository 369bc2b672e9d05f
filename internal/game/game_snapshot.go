package game

import (
	"sync/atomic"
	"time"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/weapon"
)

// ShooterSnapshot is an immutable copy of shooter state for rendering.
// It satisfies weapon.Display so HUDs can be drawn from a snapshot.
type ShooterSnapshot struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	WeaponID string      `json:"weapon"`
	Color    string      `json:"color"`
	Position weapon.Vec3 `json:"position"`
	Yaw      float64     `json:"yaw"`
	Pitch    float64     `json:"pitch"`

	Ammo           int     `json:"ammo"`
	MaxAmmo        int     `json:"maxAmmo"`
	Reloading      bool    `json:"reloading"`
	ReloadProgress float64 `json:"reloadProgress"`
	FireHeld       bool    `json:"fireHeld"`
	ReloadQueued   bool    `json:"reloadQueued"` // requested, not yet seen by a tick

	ShotsFired  uint64  `json:"shotsFired"`
	Hits        int     `json:"hits"`
	Kills       int     `json:"kills"`
	DamageDealt float64 `json:"damageDealt"`
	Accuracy    float64 `json:"accuracy"`
}

func (s ShooterSnapshot) GetCurrentAmmo() int        { return s.Ammo }
func (s ShooterSnapshot) GetMaxAmmo() int            { return s.MaxAmmo }
func (s ShooterSnapshot) IsReloading() bool          { return s.Reloading }
func (s ShooterSnapshot) GetReloadProgress() float64 { return s.ReloadProgress }

var _ weapon.Display = ShooterSnapshot{}

// TargetSnapshot is an immutable damageable target
type TargetSnapshot struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Position    weapon.Vec3 `json:"position"`
	Radius      float64     `json:"radius"`
	HP          float64     `json:"hp"`
	MaxHP       float64     `json:"maxHp"`
	DamageTaken float64     `json:"damageTaken"`
	Destroyed   bool        `json:"destroyed"`
}

// ObstacleSnapshot is an immutable ray-blocking box
type ObstacleSnapshot struct {
	ID  string      `json:"id"`
	Min weapon.Vec3 `json:"min"`
	Max weapon.Vec3 `json:"max"`
}

// EffectSnapshot is an immutable muzzle flash or impact marker
type EffectSnapshot struct {
	Kind      string      `json:"kind"`
	ShooterID string      `json:"shooterId"`
	Position  weapon.Vec3 `json:"position"`
	Normal    weapon.Vec3 `json:"normal"`
	Alpha     float64     `json:"alpha"` // 1 at spawn, fading to 0 at expiry
}

// ArenaSnapshot is a complete immutable arena state for rendering.
// All slices are pre-allocated and capped by the resource limits.
type ArenaSnapshot struct {
	Sequence   uint64    `json:"sequence"`   // Monotonic sequence for ordering
	Timestamp  time.Time `json:"timestamp"`  // When snapshot was created
	TickNumber uint64    `json:"tickNumber"` // Game tick this represents
	Now        float64   `json:"now"`        // Simulated seconds
	RNGSeed    int64     `json:"rngSeed"`    // Seed for deterministic replay

	Shooters  []ShooterSnapshot  `json:"shooters"`
	Targets   []TargetSnapshot   `json:"targets"`
	Obstacles []ObstacleSnapshot `json:"obstacles"`
	Effects   []EffectSnapshot   `json:"effects"`

	// Aggregate stats
	ShooterCount int    `json:"shooterCount"`
	LiveTargets  int    `json:"liveTargets"`
	TotalShots   uint64 `json:"totalShots"`
	TotalKills   int    `json:"totalKills"`
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering for lock-free producer/consumer
type SnapshotPool struct {
	snapshots [3]ArenaSnapshot // Triple buffer
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = ArenaSnapshot{
			Shooters:  make([]ShooterSnapshot, 0, limits.MaxShooters),
			Targets:   make([]TargetSnapshot, 0, limits.MaxTargets),
			Obstacles: make([]ObstacleSnapshot, 0, limits.MaxObstacles),
			Effects:   make([]EffectSnapshot, 0, limits.MaxEffects),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *ArenaSnapshot {
	idx := (atomic.LoadUint32(&p.readIdx) + 1) % 3
	atomic.StoreUint32(&p.writeIdx, idx)
	snap := &p.snapshots[idx]

	snap.Shooters = snap.Shooters[:0]
	snap.Targets = snap.Targets[:0]
	snap.Obstacles = snap.Obstacles[:0]
	snap.Effects = snap.Effects[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
// Called after snapshot is fully populated
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only).
// Before the first tick this is an empty snapshot with Sequence 0.
func (p *SnapshotPool) AcquireRead() *ArenaSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() config.ResourceLimits {
	return p.limits
}

package weapon

//go:generate go tool mockgen -destination=./mocks/capability_mock.go -package=mocks . HitscanProvider,Damageable,DamageableResolver,CueEmitter,AimSource,Clock,InputSource

// HitResult is the nearest surface struck by a ray.
// EntityID is empty when the surface belongs to no entity (level geometry).
type HitResult struct {
	Point    Vec3    `json:"point"`
	Normal   Vec3    `json:"normal"`
	EntityID string  `json:"entityId,omitempty"`
	Distance float64 `json:"distance"`
}

// HitscanProvider answers instantaneous ray queries against the host world.
type HitscanProvider interface {
	CastRay(origin, direction Vec3, maxRange float64) (HitResult, bool)
}

// Damageable is implemented by entities that can take damage.
// How the entity tracks health is its own business.
type Damageable interface {
	ApplyDamage(entityID string, amount float64)
}

// DamageableResolver looks up the damage capability of a struck entity.
// ok is false when the entity does not exist or cannot be damaged.
type DamageableResolver interface {
	Damageable(entityID string) (Damageable, bool)
}

// CueEmitter receives fire-and-forget presentation events.
type CueEmitter interface {
	Emit(cue Cue)
}

// AimSource supplies the ray origin and direction for the next shot.
type AimSource interface {
	Aim() (origin, direction Vec3)
}

// Clock is the host's monotonic simulation time, in seconds.
type Clock interface {
	Now() float64
}

// InputSource is polled once per tick. ReloadRequested is edge-triggered:
// it is true only on the tick the reload button went down.
type InputSource interface {
	FireHeld() bool
	ReloadRequested() bool
}

// Display is the read-only view used by HUD adapters.
type Display interface {
	GetCurrentAmmo() int
	GetMaxAmmo() int
	IsReloading() bool
	GetReloadProgress() float64
}

// CueKind enumerates presentation cues.
type CueKind uint8

const (
	CueMuzzleFlash CueKind = iota + 1
	CueShotSound
	CueReloadStart
	CueReloadSound
	CueReloadFinish
	CueImpactEffect
	CueEmpty // dry fire on an empty magazine
)

func (k CueKind) String() string {
	switch k {
	case CueMuzzleFlash:
		return "muzzle_flash"
	case CueShotSound:
		return "shot_sound"
	case CueReloadStart:
		return "reload_start"
	case CueReloadSound:
		return "reload_sound"
	case CueReloadFinish:
		return "reload_finish"
	case CueImpactEffect:
		return "impact_effect"
	case CueEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Cue is a single presentation event. Point and Normal are only set for
// CueImpactEffect.
type Cue struct {
	Kind   CueKind
	Point  Vec3
	Normal Vec3
}

type nopCues struct{}

func (nopCues) Emit(Cue) {}

type nopResolver struct{}

func (nopResolver) Damageable(string) (Damageable, bool) { return nil, false }

type nopHitscan struct{}

func (nopHitscan) CastRay(Vec3, Vec3, float64) (HitResult, bool) { return HitResult{}, false }

type fixedAim struct{}

func (fixedAim) Aim() (Vec3, Vec3) { return Vec3{}, Forward }

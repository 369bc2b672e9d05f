package game

import (
	"math"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/weapon"
)

// MaxPitch keeps aim just short of straight up/down.
const MaxPitch = math.Pi/2 - 0.01

// Shooter is an arena entity carrying one weapon controller.
type Shooter struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	WeaponID string      `json:"weapon"`
	Color    string      `json:"color"`
	Position weapon.Vec3 `json:"position"`
	Yaw      float64     `json:"yaw"`
	Pitch    float64     `json:"pitch"`

	// Stats
	Hits        int     `json:"hits"`
	Misses      int     `json:"misses"`
	Kills       int     `json:"kills"`
	DamageDealt float64 `json:"damageDealt"`
	Reloads     int     `json:"reloads"`
	JoinedAt    float64 `json:"joinedAt"`

	Weapon *weapon.Controller `json:"-"`
	Input  InputLatch         `json:"-"`

	// Last shot, for rendering tracers
	LastShot   *weapon.ShotResult `json:"-"`
	LastShotAt float64            `json:"-"`

	eyeHeight      float64
	seenViolations uint64
}

// ShooterOptions contains options for creating a shooter
type ShooterOptions struct {
	WeaponID string       // Preset to equip; empty = default weapon
	Color    string       // Defaults to the preset color
	Position *weapon.Vec3 // nil = random spawn
	Yaw      float64
	Pitch    float64
}

var shooterColors = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#ffeaa7", "#fd79a8", "#00b894", "#6c5ce7",
}

// NewShooter creates a shooter and equips it with preset. opts carries the
// collaborators; Aim is always the shooter itself.
func NewShooter(id, name string, preset config.WeaponPreset, eyeHeight float64, opts weapon.Options) (*Shooter, error) {
	s := &Shooter{
		ID:        id,
		Name:      name,
		WeaponID:  preset.ID,
		Color:     preset.Color,
		eyeHeight: eyeHeight,
	}

	opts.Aim = s
	w, err := weapon.New(preset.Config, opts)
	if err != nil {
		return nil, err
	}
	s.Weapon = w
	return s, nil
}

// Aim implements weapon.AimSource: rays leave from eye height along yaw/pitch.
func (s *Shooter) Aim() (origin, direction weapon.Vec3) {
	origin = s.Position.Add(weapon.Vec3{Y: s.eyeHeight})
	return origin, weapon.DirectionFromAngles(s.Yaw, s.Pitch)
}

// SetAim updates the view angles. Yaw is wrapped to (-pi, pi], pitch clamped.
func (s *Shooter) SetAim(yaw, pitch float64) {
	s.Yaw = normalizeAngle(yaw)
	s.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, pitch))
}

// AimAt points the shooter's eye at p.
func (s *Shooter) AimAt(p weapon.Vec3) {
	origin, _ := s.Aim()
	d := p.Sub(origin)
	horiz := math.Hypot(d.X, d.Z)
	s.SetAim(math.Atan2(d.X, d.Z), math.Atan2(d.Y, horiz))
}

// Hitbox is the shooter's body for ray queries.
func (s *Shooter) Hitbox() Hitbox {
	return Hitbox{
		Type:   HitboxSphere,
		Center: s.Position.Add(weapon.Vec3{Y: ShooterBodyCenter}),
		Radius: ShooterBodyRadius,
	}
}

// Accuracy returns hits / shots fired.
func (s *Shooter) Accuracy() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ToSnapshot returns an immutable copy for rendering
func (s *Shooter) ToSnapshot() ShooterSnapshot {
	return ShooterSnapshot{
		ID:             s.ID,
		Name:           s.Name,
		WeaponID:       s.WeaponID,
		Color:          s.Color,
		Position:       s.Position,
		Yaw:            s.Yaw,
		Pitch:          s.Pitch,
		Ammo:           s.Weapon.GetCurrentAmmo(),
		MaxAmmo:        s.Weapon.GetMaxAmmo(),
		Reloading:      s.Weapon.IsReloading(),
		ReloadProgress: s.Weapon.GetReloadProgress(),
		FireHeld:       s.Input.FireHeld(),
		ReloadQueued:   s.Input.Pending(),
		ShotsFired:     s.Weapon.ShotsFired(),
		Hits:           s.Hits,
		Kills:          s.Kills,
		DamageDealt:    s.DamageDealt,
		Accuracy:       s.Accuracy(),
	}
}

// normalizeAngle wraps an angle to (-pi, pi]
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

var _ weapon.AimSource = (*Shooter)(nil)

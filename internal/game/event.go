package game

import (
	"encoding/json"
	"time"

	"hitscan-arena/internal/weapon"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with simulated time
	EventTypeShooterJoin
	EventTypeShooterLeave
	EventTypeShot
	EventTypeDamage
	EventTypeTargetDestroyed
	EventTypeTargetRespawn
	EventTypeReloadStart
	EventTypeReloadFinish
	EventTypeClockViolation
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Game tick this occurred in
	ShooterID string          `json:"shooterId"` // Source shooter (for rate limiting)
	Payload   json.RawMessage `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeShooterJoin:
		return "shooter_join"
	case EventTypeShooterLeave:
		return "shooter_leave"
	case EventTypeShot:
		return "shot"
	case EventTypeDamage:
		return "damage"
	case EventTypeTargetDestroyed:
		return "target_destroyed"
	case EventTypeTargetRespawn:
		return "target_respawn"
	case EventTypeReloadStart:
		return "reload_start"
	case EventTypeReloadFinish:
		return "reload_finish"
	case EventTypeClockViolation:
		return "clock_violation"
	default:
		return "unknown"
	}
}

// MarshalText writes the event type by name so the JSONL log is readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses an event type name. Unknown names map to EventTypeUnknown.
func (t *EventType) UnmarshalText(b []byte) error {
	name := string(b)
	for c := EventTypeTick; c <= EventTypeClockViolation; c++ {
		if c.String() == name {
			*t = c
			return nil
		}
	}
	*t = EventTypeUnknown
	return nil
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	Now          float64 `json:"now"`
	RNGSeed      int64   `json:"rngSeed"`
	ShooterCount int     `json:"shooterCount"`
	TargetCount  int     `json:"targetCount"`
}

// ShooterJoinPayload contains shooter join details
type ShooterJoinPayload struct {
	ShooterID string      `json:"shooterId"`
	Name      string      `json:"name"`
	WeaponID  string      `json:"weapon"`
	Spawn     weapon.Vec3 `json:"spawn"`
}

// ShooterLeavePayload contains shooter leave details
type ShooterLeavePayload struct {
	ShooterID  string `json:"shooterId"`
	ShotsFired uint64 `json:"shotsFired"`
	Kills      int    `json:"kills"`
}

// ShotPayload contains one fired shot
type ShotPayload struct {
	ShooterID string      `json:"shooterId"`
	Origin    weapon.Vec3 `json:"origin"`
	Direction weapon.Vec3 `json:"direction"`
	Hit       bool        `json:"hit"`
	EntityID  string      `json:"entityId,omitempty"`
	Point     weapon.Vec3 `json:"point"`
	AmmoLeft  int         `json:"ammoLeft"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	ShooterID string  `json:"shooterId"`
	TargetID  string  `json:"targetId"`
	Damage    float64 `json:"damage"`
	TargetHP  float64 `json:"targetHp"`
	WeaponID  string  `json:"weaponId"`
}

// TargetDestroyedPayload contains kill details
type TargetDestroyedPayload struct {
	ShooterID    string `json:"shooterId"`
	TargetID     string `json:"targetId"`
	ShooterKills int    `json:"shooterKills"`
}

// TargetRespawnPayload contains respawn details
type TargetRespawnPayload struct {
	TargetID string  `json:"targetId"`
	HP       float64 `json:"hp"`
}

// ReloadPayload contains reload start/finish details
type ReloadPayload struct {
	ShooterID string  `json:"shooterId"`
	Ammo      int     `json:"ammo"`
	MaxAmmo   int     `json:"maxAmmo"`
	Duration  float64 `json:"duration"`
}

// ClockViolationPayload reports a weapon that saw time go backwards
type ClockViolationPayload struct {
	ShooterID  string `json:"shooterId"`
	Violations uint64 `json:"violations"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, shooterID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		ShooterID: shooterID,
		Payload:   EncodePayload(payload),
	}
}

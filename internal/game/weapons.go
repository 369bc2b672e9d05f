package game

import (
	"sort"
	"sync"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/weapon"
)

// DefaultWeaponID is equipped when a shooter asks for no particular preset.
const DefaultWeaponID = "rifle"

// Weapons is the built-in preset table.
// NOTE: FireRate is shots per second; ReloadDuration is seconds.
var Weapons = map[string]config.WeaponPreset{
	"rifle": {
		ID:     "rifle",
		Name:   "Rifle",
		Color:  "#4caf50",
		Config: weapon.DefaultConfig(), // 10 dmg, 100 m, 10/s, 30 rounds, 1.5 s
	},
	"pistol": {
		ID:    "pistol",
		Name:  "Pistol",
		Color: "#9e9e9e",
		Config: weapon.Config{
			Damage:         20,
			Range:          50,
			FireRate:       4,
			MaxAmmo:        12,
			ReloadDuration: 1.0,
		},
	},
	"smg": {
		ID:    "smg",
		Name:  "SMG",
		Color: "#ff9800",
		Config: weapon.Config{
			Damage:         6,
			Range:          40,
			FireRate:       15,
			MaxAmmo:        40,
			ReloadDuration: 1.2,
		},
	},
	"marksman": {
		ID:    "marksman",
		Name:  "Marksman",
		Color: "#2196f3",
		Config: weapon.Config{
			Damage:         45,
			Range:          300,
			FireRate:       1.5,
			MaxAmmo:        5,
			ReloadDuration: 2.5,
		},
	},
	"lmg": {
		ID:    "lmg",
		Name:  "Light Machine Gun",
		Color: "#795548",
		Config: weapon.Config{
			Damage:         12,
			Range:          120,
			FireRate:       12,
			MaxAmmo:        100,
			ReloadDuration: 4.0,
		},
	},
}

// Armory holds the presets an engine can equip: the built-in table plus
// any loaded from a presets file.
type Armory struct {
	mu      sync.RWMutex
	presets map[string]config.WeaponPreset
}

// NewArmory creates an armory seeded with the built-in presets.
func NewArmory() *Armory {
	a := &Armory{presets: make(map[string]config.WeaponPreset, len(Weapons))}
	for id, p := range Weapons {
		a.presets[id] = p
	}
	return a
}

// Register adds or replaces presets. Every preset is validated first;
// on error nothing is registered.
func (a *Armory) Register(presets ...config.WeaponPreset) error {
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range presets {
		a.presets[p.ID] = p
	}
	return nil
}

// Lookup returns a preset by ID.
func (a *Armory) Lookup(id string) (config.WeaponPreset, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.presets[id]
	return p, ok
}

// GetWeapon returns a preset by ID, defaults to the rifle
func (a *Armory) GetWeapon(id string) config.WeaponPreset {
	if p, ok := a.Lookup(id); ok {
		return p
	}
	return Weapons[DefaultWeaponID]
}

// GetAllWeapons returns all presets sorted by ID
func (a *Armory) GetAllWeapons() []config.WeaponPreset {
	a.mu.RLock()
	defer a.mu.RUnlock()

	weapons := make([]config.WeaponPreset, 0, len(a.presets))
	for _, p := range a.presets {
		weapons = append(weapons, p)
	}
	sort.Slice(weapons, func(i, j int) bool { return weapons[i].ID < weapons[j].ID })
	return weapons
}
